package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestOperationMetricsStats(t *testing.T) {
	var om OperationMetrics
	for i := 1; i <= 100; i++ {
		om.Record(time.Duration(i)*time.Millisecond, i%10 != 0, i%10 == 0)
	}

	if om.Total != 100 || om.Success != 90 || om.Conflict != 10 || om.Error != 0 {
		t.Fatalf("unexpected counters: total=%d success=%d conflict=%d error=%d", om.Total, om.Success, om.Conflict, om.Error)
	}

	s := om.Stats()
	if s.Min != time.Millisecond || s.Max != 100*time.Millisecond {
		t.Errorf("unexpected min/max: %+v", s)
	}
	if s.P50 != 51*time.Millisecond || s.P95 != 96*time.Millisecond {
		t.Errorf("unexpected percentiles: p50=%s p95=%s", s.P50, s.P95)
	}
	if s.Avg != 50500*time.Microsecond {
		t.Errorf("unexpected avg %s", s.Avg)
	}
}

func TestEmptyMetricsReportNothing(t *testing.T) {
	var m Metrics
	if s := m.Booking.Stats(); s != (LatencyStats{}) {
		t.Errorf("expected zero stats, got %+v", s)
	}

	var buf bytes.Buffer
	m.WriteReport(&buf, SimConfig{Duration: time.Second, Workers: 1})
	if strings.Contains(buf.String(), "Booking:") {
		t.Error("operations without samples should be omitted")
	}
}

func TestLoadConfigNormalisesRatios(t *testing.T) {
	t.Setenv("SIM_BOOKING_RATIO", "2")
	t.Setenv("SIM_CANCEL_RATIO", "1")
	t.Setenv("SIM_READ_RATIO", "1")

	cfg := loadConfig()
	if cfg.BookingRatio != 0.5 || cfg.CancelRatio != 0.25 || cfg.ReadRatio != 0.25 {
		t.Errorf("ratios not normalised: %+v", cfg)
	}
	if err := validateConfig(cfg); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestBookingAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/doctors":
			_, _ = w.Write([]byte(`[{"id":"1","name":"Dr. Sarah Johnson","availability":"available"}]`))
		case r.Method == http.MethodGet && r.URL.Path == "/patients":
			_, _ = w.Write([]byte(`[{"id":"1","name":"John Smith"}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/appointments":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"7","status":"scheduled"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	log, _ := test.NewNullLogger()
	sim := &Simulator{
		config: SimConfig{APIBaseURL: srv.URL, DaysAhead: 2},
		client: srv.Client(),
		log:    log,
	}

	pool, err := sim.loadDataPool(context.Background())
	if err != nil {
		t.Fatalf("loadDataPool: %v", err)
	}
	sim.pool = pool

	f := gofakeit.New(1)
	sim.doBooking(context.Background(), f)

	if sim.metrics.Booking.Success != 1 {
		t.Errorf("expected one successful booking, got %d of %d", sim.metrics.Booking.Success, sim.metrics.Booking.Total)
	}
	if id, ok := pool.RandomAppointment(f); !ok || id != "7" {
		t.Errorf("expected booked id to be tracked, got %q", id)
	}
}
