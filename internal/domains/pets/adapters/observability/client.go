package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/petstore-contract-tests/internal/clients/http/petstore"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/ports"
)

const tracerName = "github.com/Apurer/petstore-contract-tests/internal/domains/pets/adapters/observability/client"

// Client decorates a pet client port with tracing, logging, and metrics.
// Responses pass through untouched; status codes are only recorded.
type Client struct {
	inner   ports.PetClient
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics clientMetrics
}

type Option func(*Client)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tr
	}
}

// WithMeter injects the meter used to create client metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(c *Client) {
		c.metrics = newClientMetrics(m)
	}
}

// New wires a decorator around the pet client.
func New(inner ports.PetClient, opts ...Option) ports.PetClient {
	c := &Client{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newClientMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.tracer == nil {
		c.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if c.logger == nil {
		c.logger = defaultLogger()
	}
	return c
}

// CreatePet posts a pet with instrumentation.
func (c *Client) CreatePet(ctx context.Context, pet petstore.Pet) (*petstore.Response, error) {
	ctx, span := c.startSpan(ctx, "Client.CreatePet", attribute.Int64("pet.id", pet.ID))
	defer span.End()

	resp, err := c.inner.CreatePet(ctx, pet)
	return c.observe(ctx, span, "create_pet", resp, err, slog.Int64("pet.id", pet.ID))
}

// CreatePetWithInvalidData posts an unconstrained payload with instrumentation.
func (c *Client) CreatePetWithInvalidData(ctx context.Context, payload any) (*petstore.Response, error) {
	ctx, span := c.startSpan(ctx, "Client.CreatePetWithInvalidData")
	defer span.End()

	resp, err := c.inner.CreatePetWithInvalidData(ctx, payload)
	return c.observe(ctx, span, "create_pet_invalid", resp, err)
}

// GetPet fetches a pet with instrumentation.
func (c *Client) GetPet(ctx context.Context, id int64) (*petstore.Response, error) {
	ctx, span := c.startSpan(ctx, "Client.GetPet", attribute.Int64("pet.id", id))
	defer span.End()

	resp, err := c.inner.GetPet(ctx, id)
	return c.observe(ctx, span, "get_pet", resp, err, slog.Int64("pet.id", id))
}

// DeletePet deletes a pet with instrumentation.
func (c *Client) DeletePet(ctx context.Context, id int64) (*petstore.Response, error) {
	ctx, span := c.startSpan(ctx, "Client.DeletePet", attribute.Int64("pet.id", id))
	defer span.End()

	resp, err := c.inner.DeletePet(ctx, id)
	return c.observe(ctx, span, "delete_pet", resp, err, slog.Int64("pet.id", id))
}

func (c *Client) UpdatePet(ctx context.Context) (*petstore.Response, error) {
	ctx, span := c.startSpan(ctx, "Client.UpdatePet")
	defer span.End()

	resp, err := c.inner.UpdatePet(ctx)
	return c.observe(ctx, span, "update_pet", resp, err)
}

func (c *Client) UploadPetImage(ctx context.Context) (*petstore.Response, error) {
	ctx, span := c.startSpan(ctx, "Client.UploadPetImage")
	defer span.End()

	resp, err := c.inner.UploadPetImage(ctx)
	return c.observe(ctx, span, "upload_pet_image", resp, err)
}

func (c *Client) FindPetsByStatus(ctx context.Context) (*petstore.Response, error) {
	ctx, span := c.startSpan(ctx, "Client.FindPetsByStatus")
	defer span.End()

	resp, err := c.inner.FindPetsByStatus(ctx)
	return c.observe(ctx, span, "find_pets_by_status", resp, err)
}

func (c *Client) observe(ctx context.Context, span trace.Span, operation string, resp *petstore.Response, err error, attrs ...slog.Attr) (*petstore.Response, error) {
	attrs = append(attrs, slog.String("operation", operation))
	if err != nil {
		if errors.Is(err, petstore.ErrNotImplemented) {
			c.logInfo(ctx, "pet client operation not implemented", attrs...)
			span.SetStatus(codes.Unset, err.Error())
			return resp, err
		}
		c.metrics.recordTransportError(ctx, operation)
		return resp, c.handleError(ctx, span, err, "pet client request failed", attrs...)
	}
	status := resp.StatusCode()
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	c.metrics.recordResponse(ctx, operation, status)
	c.logInfo(ctx, "pet client response", append(attrs, slog.Int("status", status))...)
	return resp, nil
}

func (c *Client) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := c.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (c *Client) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (c *Client) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	c.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (c *Client) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	c.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type clientMetrics struct {
	responses       metric.Int64Counter
	transportErrors metric.Int64Counter
}

func newClientMetrics(m metric.Meter) clientMetrics {
	if m == nil {
		return clientMetrics{}
	}
	responses, _ := m.Int64Counter("petstore.client.responses", metric.WithDescription("Number of responses received per operation and status"))
	transportErrors, _ := m.Int64Counter("petstore.client.transport_errors", metric.WithDescription("Number of requests that failed before a response arrived"))
	return clientMetrics{
		responses:       responses,
		transportErrors: transportErrors,
	}
}

func (m clientMetrics) recordResponse(ctx context.Context, operation string, status int) {
	addCounter(ctx, m.responses, 1, attribute.String("operation", operation), attribute.Int("http.response.status_code", status))
}

func (m clientMetrics) recordTransportError(ctx context.Context, operation string) {
	addCounter(ctx, m.transportErrors, 1, attribute.String("operation", operation))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.PetClient = (*Client)(nil)
