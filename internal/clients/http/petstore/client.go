package petstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/oapi-codegen/runtime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// DefaultBaseURL is the public petstore deployment the suite targets.
	DefaultBaseURL = "https://petstore.swagger.io/v2"
	// DefaultTimeout bounds a single round trip when Config.Timeout is zero.
	DefaultTimeout = 30 * time.Second

	// HeaderAPIKey carries the key required by the delete endpoint.
	HeaderAPIKey = "api_key"

	contentTypeJSON = "application/json"
	petPath         = "/pet"
)

// ErrNotImplemented is returned by operations reserved for future coverage.
var ErrNotImplemented = errors.New("operation not implemented")

// Config is the explicit configuration the client is built from.
type Config struct {
	BaseURL string
	// APIKey is sent as the api_key header on deletes. Empty is allowed and
	// left for the server to reject.
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client issues requests against the pet resource and returns the raw
// response envelope. It never interprets status codes and never retries.
type Client struct {
	http   *resty.Client
	apiKey string
}

// NewClient instantiates the client with sane defaults.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("petstore base URL is required")
	}
	// resty sets the timeout on the client it wraps, so work on a copy.
	httpClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	if cfg.HTTPClient != nil {
		c := *cfg.HTTPClient
		httpClient = &c
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rc := resty.NewWithClient(httpClient).
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &Client{http: rc, apiKey: cfg.APIKey}, nil
}

// CreatePet posts a fully populated pet.
func (c *Client) CreatePet(ctx context.Context, pet Pet) (*Response, error) {
	return c.create(ctx, "create pet", pet)
}

// CreatePetWithInvalidData posts an arbitrary payload through the same
// transport as CreatePet. It exists to exercise server-side input validation,
// e.g. with a non-numeric identifier.
func (c *Client) CreatePetWithInvalidData(ctx context.Context, payload any) (*Response, error) {
	return c.create(ctx, "create pet with invalid data", payload)
}

func (c *Client) create(ctx context.Context, op string, body any) (*Response, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentTypeJSON).
		SetHeader("Accept", contentTypeJSON).
		SetBody(body).
		Post(petPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return newResponse(resp), nil
}

// GetPet fetches a pet by identifier.
func (c *Client) GetPet(ctx context.Context, id int64) (*Response, error) {
	path, err := petIDPath(id)
	if err != nil {
		return nil, fmt.Errorf("get pet: %w", err)
	}
	resp, err := c.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("get pet: %w", err)
	}
	return newResponse(resp), nil
}

// DeletePet deletes a pet by identifier, authenticating with the configured
// API key.
func (c *Client) DeletePet(ctx context.Context, id int64) (*Response, error) {
	path, err := petIDPath(id)
	if err != nil {
		return nil, fmt.Errorf("delete pet: %w", err)
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", contentTypeJSON).
		SetHeader(HeaderAPIKey, c.apiKey).
		Delete(path)
	if err != nil {
		return nil, fmt.Errorf("delete pet: %w", err)
	}
	return newResponse(resp), nil
}

// UpdatePet is not covered yet.
func (c *Client) UpdatePet(context.Context) (*Response, error) {
	return nil, fmt.Errorf("update pet: %w", ErrNotImplemented)
}

// UploadPetImage is not covered yet.
func (c *Client) UploadPetImage(context.Context) (*Response, error) {
	return nil, fmt.Errorf("upload pet image: %w", ErrNotImplemented)
}

// FindPetsByStatus is not covered yet.
func (c *Client) FindPetsByStatus(context.Context) (*Response, error) {
	return nil, fmt.Errorf("find pets by status: %w", ErrNotImplemented)
}

func petIDPath(id int64) (string, error) {
	param, err := runtime.StyleParamWithLocation("simple", false, "petId", runtime.ParamLocationPath, id)
	if err != nil {
		return "", err
	}
	return petPath + "/" + param, nil
}
