package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Bootstrapped idempotently at startup. Email uniqueness and the duration
// bound are enforced by the store itself; the application-level checks are a
// fast path only.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id            BIGSERIAL PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL CHECK (role IN ('patient', 'doctor', 'admin')),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS doctor_profiles (
	account_id BIGINT PRIMARY KEY REFERENCES accounts(id),
	specialty  TEXT NOT NULL DEFAULT '',
	details    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS appointments (
	id               BIGSERIAL PRIMARY KEY,
	doctor_id        BIGINT NOT NULL REFERENCES accounts(id),
	patient_id       BIGINT NOT NULL REFERENCES accounts(id),
	start_time       TIMESTAMPTZ NOT NULL,
	start_day        DATE NOT NULL,
	duration_minutes INT NOT NULL CHECK (duration_minutes BETWEEN 15 AND 120),
	status           TEXT NOT NULL CHECK (status IN ('booked', 'cancelled', 'done')),
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_appointments_doctor_day ON appointments (doctor_id, start_day);
CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments (patient_id);
`

func InitSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to bootstrap schema: %w", err)
	}
	return nil
}
