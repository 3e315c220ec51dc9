package scenarios

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Apurer/petstore-contract-tests/internal/clients/http/petstore"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/ports"
)

// WaitMode selects how a scenario bridges the gap between creating a pet and
// the API accepting its deletion.
type WaitMode string

const (
	// WaitPoll retries the delete until it succeeds or the timeout elapses.
	WaitPoll WaitMode = "poll"
	// WaitFixed sleeps once for a fixed delay and deletes exactly once.
	WaitFixed WaitMode = "fixed"
)

const (
	DefaultDeleteDelay   = 6 * time.Second
	DefaultDeleteTimeout = 15 * time.Second
	DefaultPollInterval  = 500 * time.Millisecond
)

// DeleteWait configures the wait used by the create-then-delete scenario.
type DeleteWait struct {
	Mode     WaitMode
	Delay    time.Duration
	Timeout  time.Duration
	Interval time.Duration
}

// DefaultDeleteWait polls with the default bounds.
func DefaultDeleteWait() DeleteWait {
	return DeleteWait{
		Mode:     WaitPoll,
		Delay:    DefaultDeleteDelay,
		Timeout:  DefaultDeleteTimeout,
		Interval: DefaultPollInterval,
	}
}

// ParseWaitMode accepts "poll" or "fixed", case-insensitively.
func ParseWaitMode(raw string) (WaitMode, error) {
	switch mode := WaitMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case WaitPoll, WaitFixed:
		return mode, nil
	case "":
		return WaitPoll, nil
	default:
		return "", fmt.Errorf("unknown delete wait mode %q (want %q or %q)", raw, WaitPoll, WaitFixed)
	}
}

// Delete removes the pet once the API accepts it. The returned response is
// the last one received; a transport error ends the wait immediately.
func (w DeleteWait) Delete(ctx context.Context, client ports.PetClient, id int64) (*petstore.Response, error) {
	if w.Mode == WaitFixed {
		return w.deleteAfterDelay(ctx, client, id)
	}
	return w.deleteWhenAccepted(ctx, client, id)
}

func (w DeleteWait) deleteAfterDelay(ctx context.Context, client ports.PetClient, id int64) (*petstore.Response, error) {
	delay := w.Delay
	if delay < 0 {
		delay = 0
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}
	return client.DeletePet(ctx, id)
}

func (w DeleteWait) deleteWhenAccepted(ctx context.Context, client ports.PetClient, id int64) (*petstore.Response, error) {
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = DefaultDeleteTimeout
	}
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var last *petstore.Response
	var transportErr error
	operation := func() error {
		resp, err := client.DeletePet(ctx, id)
		if err != nil {
			if ctx.Err() == nil {
				transportErr = err
			}
			return backoff.Permanent(err)
		}
		last = resp
		if resp.StatusCode() == http.StatusOK {
			return nil
		}
		return fmt.Errorf("delete pet %d: status %d", id, resp.StatusCode())
	}
	err := backoff.Retry(operation, backoff.WithContext(backoff.NewConstantBackOff(interval), ctx))
	if transportErr != nil {
		return nil, transportErr
	}
	if last == nil {
		return nil, err
	}
	return last, nil
}
