package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS appointments (
		id                BIGSERIAL PRIMARY KEY,
		patient_id        TEXT NOT NULL,
		patient_name      TEXT NOT NULL,
		doctor_id         TEXT NOT NULL,
		doctor_name       TEXT NOT NULL,
		department        TEXT NOT NULL DEFAULT '',
		consultation_type TEXT NOT NULL DEFAULT 'video',
		appt_date         DATE NOT NULL,
		appt_time         TEXT NOT NULL CHECK (appt_time ~ '^[0-2][0-9]:[0-5][0-9]$'),
		status            TEXT NOT NULL DEFAULT 'scheduled',
		notes             TEXT NOT NULL DEFAULT '',
		duration_minutes  INTEGER NOT NULL DEFAULT 30,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS appointments_active_slot_idx
		ON appointments (doctor_id, appt_date, appt_time)
		WHERE status <> 'cancelled'`,
	`CREATE INDEX IF NOT EXISTS appointments_patient_idx ON appointments (patient_id)`,
	`CREATE TABLE IF NOT EXISTS appointment_events (
		id             BIGSERIAL PRIMARY KEY,
		event_type     TEXT NOT NULL,
		appointment_id TEXT,
		payload        JSONB,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates the ledger tables when they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
