package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migration holds a single schema migration with its target version and SQL.
// Statements must stay portable between PostgreSQL and SQLite.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS lifts (
	id                    TEXT PRIMARY KEY,
	lift_number           TEXT NOT NULL,
	location              TEXT NOT NULL,
	building              TEXT,
	amc_start_date        DATE NOT NULL,
	amc_end_date          DATE NOT NULL,
	amc_renewal_date      DATE NOT NULL,
	quarter1_payment_date DATE,
	quarter2_payment_date DATE,
	quarter3_payment_date DATE,
	quarter4_payment_date DATE,
	quarterly_amount      DOUBLE PRECISION,
	status                TEXT NOT NULL DEFAULT 'ACTIVE',
	created_at            TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS employees (
	id            TEXT PRIMARY KEY,
	employee_code TEXT NOT NULL UNIQUE,
	first_name    TEXT NOT NULL,
	last_name     TEXT,
	designation   TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'ACTIVE',
	created_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS service_records (
	id                TEXT PRIMARY KEY,
	lift_id           TEXT NOT NULL REFERENCES lifts(id) ON DELETE CASCADE,
	service_type      TEXT NOT NULL,
	service_date      DATE NOT NULL,
	next_service_date DATE,
	performed_by      TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT 'COMPLETED',
	created_at        TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS attendance (
	id              TEXT PRIMARY KEY,
	employee_id     TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
	attendance_date DATE NOT NULL,
	status          TEXT NOT NULL,
	remarks         TEXT,
	created_at      TIMESTAMP NOT NULL,
	UNIQUE (employee_id, attendance_date)
);

CREATE INDEX IF NOT EXISTS idx_lifts_status ON lifts(status);
CREATE INDEX IF NOT EXISTS idx_lifts_amc_end_date ON lifts(amc_end_date);
CREATE INDEX IF NOT EXISTS idx_service_records_lift_id ON service_records(lift_id);
CREATE INDEX IF NOT EXISTS idx_attendance_date_status ON attendance(attendance_date, status);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS alerts (
	id              TEXT PRIMARY KEY,
	category        TEXT NOT NULL,
	priority        TEXT NOT NULL,
	lift_id         TEXT,
	employee_id     TEXT,
	subject_key     TEXT NOT NULL,
	title           TEXT NOT NULL,
	message         TEXT NOT NULL DEFAULT '',
	raised_on       DATE NOT NULL,
	due_date        DATE NOT NULL,
	is_read         BOOLEAN NOT NULL DEFAULT FALSE,
	read_at         TIMESTAMP,
	is_active       BOOLEAN NOT NULL DEFAULT TRUE,
	dismissed_at    TIMESTAMP,
	resolution_note TEXT,
	created_at      TIMESTAMP NOT NULL,
	CHECK (lift_id IS NOT NULL OR employee_id IS NOT NULL),
	CHECK ((is_read AND read_at IS NOT NULL) OR (NOT is_read AND read_at IS NULL)),
	CHECK ((is_active AND dismissed_at IS NULL) OR (NOT is_active AND dismissed_at IS NOT NULL))
);

CREATE UNIQUE INDEX IF NOT EXISTS ux_alerts_daily
	ON alerts(category, subject_key, due_date, raised_on);

CREATE INDEX IF NOT EXISTS idx_alerts_active_read ON alerts(is_active, is_read);
CREATE INDEX IF NOT EXISTS idx_alerts_lift_id ON alerts(lift_id);
CREATE INDEX IF NOT EXISTS idx_alerts_employee_id ON alerts(employee_id);
CREATE INDEX IF NOT EXISTS idx_alerts_dismissed_at ON alerts(dismissed_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

// Migrate checks the current schema version and applies any outstanding
// migrations in order, each in its own transaction.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var currentVersion int
	if err := db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("beginning migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration v%d: %w", m.version, err)
		}
	}

	return nil
}
