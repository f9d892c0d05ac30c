package payments

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"payments_adapter/internal/config"
	"payments_adapter/internal/domain/entities"
	"payments_adapter/internal/infrastructure/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewGateway(t *testing.T) {
	gw, err := NewGateway(context.Background(), config.Config{Provider: config.ProviderMock})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := gw.(*InstrumentedGateway); !ok {
		t.Fatalf("expected instrumented gateway, got %T", gw)
	}

	if _, err := NewGateway(context.Background(), config.Config{Provider: "stripe"}); err == nil {
		t.Fatalf("expected unknown provider error")
	}
	if _, err := NewGateway(context.Background(), config.Config{Provider: config.ProviderMercadoPago}); !errors.Is(err, config.ErrMissingMercadoPagoAccessToken) {
		t.Fatalf("expected missing token error, got %v", err)
	}
	if _, err := NewGateway(context.Background(), config.Config{Provider: config.ProviderPayPal, PayPalEnvironment: "prod"}); err == nil {
		t.Fatalf("expected unknown environment error")
	}
}

func TestInstrumentedGateway_RecordsOutcome(t *testing.T) {
	gw := Instrument("instrument-test", NewMockGateway())

	before := testutil.ToFloat64(metrics.ProviderCallsTotal.WithLabelValues("instrument-test", "capture", outcomeProviderError))
	if _, err := gw.CaptureOrder(context.Background(), "missing"); err == nil {
		t.Fatalf("expected capture error")
	}
	after := testutil.ToFloat64(metrics.ProviderCallsTotal.WithLabelValues("instrument-test", "capture", outcomeProviderError))
	if after != before+1 {
		t.Fatalf("expected provider_error counter to increase, before=%v after=%v", before, after)
	}

	if _, err := gw.CreateOrder(context.Background(), testOrderRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := testutil.ToFloat64(metrics.ProviderCallsTotal.WithLabelValues("instrument-test", "create", outcomeSuccess)); got != 1 {
		t.Fatalf("expected one successful create, got %v", got)
	}
}

func TestInstrumentedGateway_LogsEachCall(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	gw := Instrument("log-test", NewMockGateway())
	_, _ = gw.CaptureOrder(context.Background(), "missing")

	out := buf.String()
	if !strings.Contains(out, "[order][gateway] op=capture provider=log-test outcome=provider_error duration=") {
		t.Fatalf("expected call log line, got %q", out)
	}
}

func TestCallOutcome(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, outcomeSuccess},
		{entities.InvalidInputf("x"), outcomeInvalidInput},
		{&entities.ProviderError{}, outcomeProviderError},
		{&entities.TransportError{Err: errors.New("x")}, outcomeTransportError},
		{errors.New("x"), outcomeUnknownError},
	}
	for _, tc := range cases {
		if got := callOutcome(tc.err); got != tc.want {
			t.Fatalf("for %v expected %s got %s", tc.err, tc.want, got)
		}
	}
}
