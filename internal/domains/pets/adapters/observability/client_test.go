package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Apurer/petstore-contract-tests/internal/clients/http/petstore"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/ports"
)

type fixture struct {
	client ports.PetClient
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *bytes.Buffer
}

func newFixture(t *testing.T, baseURL string) fixture {
	t.Helper()
	inner, err := petstore.NewClient(petstore.Config{BaseURL: baseURL})
	require.NoError(t, err)

	spans := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	logs := &bytes.Buffer{}
	client := New(inner,
		WithLogger(slog.New(slog.NewJSONHandler(logs, nil))),
		WithTracer(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)).Tracer("test")),
		WithMeter(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")),
	)
	return fixture{client: client, spans: spans, reader: reader, logs: logs}
}

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestClient_RecordsResponsesWithoutAlteringThem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":1,"type":"error","message":"Pet not found"}`))
	}))
	defer srv.Close()
	f := newFixture(t, srv.URL)

	resp, err := f.client.GetPet(context.Background(), 25875)

	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode())
	require.Equal(t, "Pet not found", resp.Field("message").String())

	ended := f.spans.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, "Client.GetPet", ended[0].Name())
	require.Contains(t, ended[0].Attributes(), attribute.Int("http.response.status_code", http.StatusNotFound))
	require.Equal(t, int64(1), counterTotal(t, f.reader, "petstore.client.responses"))
	require.Contains(t, f.logs.String(), `"operation":"get_pet"`)
}

func TestClient_TransportErrorsAreRecorded(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	f := newFixture(t, url)

	_, err := f.client.DeletePet(context.Background(), 1)

	require.Error(t, err)
	ended := f.spans.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, codes.Error, ended[0].Status().Code)
	require.Equal(t, int64(1), counterTotal(t, f.reader, "petstore.client.transport_errors"))
	require.Contains(t, f.logs.String(), "pet client request failed")
}

func TestClient_NotImplementedPassesThrough(t *testing.T) {
	f := newFixture(t, "http://127.0.0.1:1")

	_, err := f.client.UpdatePet(context.Background())

	require.True(t, errors.Is(err, petstore.ErrNotImplemented))
	require.Zero(t, counterTotal(t, f.reader, "petstore.client.transport_errors"))
	require.Contains(t, f.logs.String(), "not implemented")
}
