package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/hackgods/rural-care-scheduling/internal/appointment"
	"github.com/hackgods/rural-care-scheduling/internal/doctor"
	"github.com/hackgods/rural-care-scheduling/internal/logger"
	"github.com/hackgods/rural-care-scheduling/internal/patient"
)

type SimConfig struct {
	APIBaseURL   string
	Duration     time.Duration
	Workers      int
	BookingRatio float64
	CancelRatio  float64
	ReadRatio    float64
	DaysAhead    int
}

// DataPool is what the workers pick from: the roster as served by the API
// plus every appointment booked during the run.
type DataPool struct {
	Doctors  []doctor.Doctor
	Patients []patient.Patient

	mu           sync.RWMutex
	appointments []string
}

func (dp *DataPool) AddAppointment(id string) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, id)
}

func (dp *DataPool) RandomAppointment(f *gofakeit.Faker) (string, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return "", false
	}
	return dp.appointments[f.Number(0, len(dp.appointments)-1)], true
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	metrics Metrics
	log     logrus.FieldLogger
}

func main() {
	_ = godotenv.Load()
	log := logger.New(getEnv("LOG_LEVEL", "info"), getEnv("LOG_FORMAT", "text"))

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	log.WithFields(logrus.Fields{
		"duration": cfg.Duration,
		"workers":  cfg.Workers,
		"booking":  cfg.BookingRatio,
		"cancel":   cfg.CancelRatio,
		"read":     cfg.ReadRatio,
	}).Info("simulator starting")

	sim := &Simulator{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := sim.loadDataPool(ctx)
	if err != nil {
		log.WithError(err).Fatal("load data pool")
	}
	sim.pool = pool
	log.WithFields(logrus.Fields{"doctors": len(pool.Doctors), "patients": len(pool.Patients)}).Info("data pool loaded")

	sim.Run()
	sim.metrics.WriteReport(os.Stdout, cfg)
}

func loadConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL:   getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:     getDuration("SIM_DURATION", 30*time.Second),
		Workers:      getInt("SIM_WORKERS", 10),
		BookingRatio: getFloat("SIM_BOOKING_RATIO", 0.5),
		CancelRatio:  getFloat("SIM_CANCEL_RATIO", 0.1),
		ReadRatio:    getFloat("SIM_READ_RATIO", 0.4),
		DaysAhead:    getInt("SIM_DAYS_AHEAD", 3),
	}

	total := cfg.BookingRatio + cfg.CancelRatio + cfg.ReadRatio
	if total > 0 {
		cfg.BookingRatio /= total
		cfg.CancelRatio /= total
		cfg.ReadRatio /= total
	}
	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.Workers <= 0 {
		return errors.New("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return errors.New("SIM_DURATION must be > 0")
	}
	if cfg.DaysAhead <= 0 {
		return errors.New("SIM_DAYS_AHEAD must be > 0")
	}
	return nil
}

func (s *Simulator) loadDataPool(ctx context.Context) (*DataPool, error) {
	pool := &DataPool{}
	if err := s.getJSON(ctx, "/doctors", &pool.Doctors); err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	if err := s.getJSON(ctx, "/patients", &pool.Patients); err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}

	if len(pool.Doctors) == 0 {
		return nil, errors.New("no doctors loaded")
	}
	if len(pool.Patients) == 0 {
		return nil, errors.New("no patients loaded")
	}
	return pool, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	s.log.Info("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	f := gofakeit.New(uint64(time.Now().UnixNano()) + uint64(workerID))

	for ctx.Err() == nil {
		r := f.Float64()
		switch {
		case r < s.config.BookingRatio:
			s.doBooking(ctx, f)
		case r < s.config.BookingRatio+s.config.CancelRatio:
			s.doCancel(ctx, f)
		default:
			switch f.Number(0, 2) {
			case 0:
				s.doSlots(ctx, f)
			case 1:
				s.doReadByID(ctx, f)
			case 2:
				s.doListByPatient(ctx, f)
			}
		}
	}
}

func (s *Simulator) randomDate(f *gofakeit.Faker) string {
	return time.Now().AddDate(0, 0, f.Number(1, s.config.DaysAhead)).Format(appointment.DateLayout)
}

func (s *Simulator) doBooking(ctx context.Context, f *gofakeit.Faker) {
	doc := s.pool.Doctors[f.Number(0, len(s.pool.Doctors)-1)]
	p := s.pool.Patients[f.Number(0, len(s.pool.Patients)-1)]
	slots := appointment.CanonicalSlots()

	req := appointment.BookingRequest{
		PatientID:        p.ID,
		PatientName:      p.Name,
		DoctorID:         doc.ID,
		DoctorName:       doc.Name,
		ConsultationType: appointment.ConsultationType(f.RandomString([]string{"video", "chat", "phone"})),
		Date:             s.randomDate(f),
		Time:             slots[f.Number(0, len(slots)-1)],
	}

	var created appointment.Appointment
	start := time.Now()
	status, err := s.send(ctx, http.MethodPost, "/appointments", req, &created)
	latency := time.Since(start)

	success := err == nil && status == http.StatusCreated
	if success && created.ID != "" {
		s.pool.AddAppointment(created.ID)
	}
	s.metrics.Booking.Record(latency, success, status == http.StatusConflict)
}

func (s *Simulator) doCancel(ctx context.Context, f *gofakeit.Faker) {
	id, ok := s.pool.RandomAppointment(f)
	if !ok {
		return
	}

	start := time.Now()
	status, err := s.send(ctx, http.MethodPatch, "/appointments/"+id+"/status",
		map[string]string{"status": string(appointment.StatusCancelled)}, nil)
	s.metrics.Cancel.Record(time.Since(start), err == nil && status == http.StatusOK, status == http.StatusConflict)
}

func (s *Simulator) doSlots(ctx context.Context, f *gofakeit.Faker) {
	doc := s.pool.Doctors[f.Number(0, len(s.pool.Doctors)-1)]

	start := time.Now()
	status, err := s.send(ctx, http.MethodGet, fmt.Sprintf("/doctors/%s/slots?date=%s", doc.ID, s.randomDate(f)), nil, nil)
	s.metrics.Slots.Record(time.Since(start), err == nil && status == http.StatusOK, false)
}

func (s *Simulator) doReadByID(ctx context.Context, f *gofakeit.Faker) {
	id, ok := s.pool.RandomAppointment(f)
	if !ok {
		return
	}

	start := time.Now()
	status, err := s.send(ctx, http.MethodGet, "/appointments/"+id, nil, nil)
	s.metrics.ReadByID.Record(time.Since(start), err == nil && status == http.StatusOK, false)
}

func (s *Simulator) doListByPatient(ctx context.Context, f *gofakeit.Faker) {
	p := s.pool.Patients[f.Number(0, len(s.pool.Patients)-1)]

	start := time.Now()
	status, err := s.send(ctx, http.MethodGet, "/appointments?patient_id="+p.ID, nil, nil)
	s.metrics.ListByPatient.Record(time.Since(start), err == nil && status == http.StatusOK, false)
}

func (s *Simulator) getJSON(ctx context.Context, path string, out any) error {
	status, err := s.send(ctx, http.MethodGet, path, nil, out)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, status)
	}
	return nil
}

// send performs one request and decodes a 2xx body into out when out is non-nil.
func (s *Simulator) send(ctx context.Context, method, path string, body, out any) (int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.APIBaseURL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return resp.StatusCode, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
