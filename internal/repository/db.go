package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

var initialBackoff = time.Second

// NewDB creates a new MySQL connection pool with the given DSN. It does not
// touch the network; use Connect to wait for the server.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Pinger is the part of *sql.DB that Connect needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Connect pings db until it answers, sleeping with exponential backoff
// (1s, 2s, 4s, ... capped at maxBackoff) between attempts. It retries
// forever and only gives up when ctx is done.
func Connect(ctx context.Context, db Pinger, maxBackoff time.Duration, logger *zap.Logger) error {
	backoff := initialBackoff
	if maxBackoff < backoff {
		maxBackoff = backoff
	}

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := db.PingContext(pingCtx)
		cancel()
		if err == nil {
			logger.Info("database connected", zap.Int("attempt", attempt))
			return nil
		}

		logger.Warn("database ping failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("database connect aborted after %d attempts: %w", attempt, ctx.Err())
		case <-timer.C:
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		name          VARCHAR(100) NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at    DATETIME(6)  NOT NULL,
		updated_at    DATETIME(6)  NOT NULL,
		UNIQUE KEY uq_users_email (email)
	)`,
	`CREATE TABLE IF NOT EXISTS charging_stations (
		id             CHAR(36)     NOT NULL PRIMARY KEY,
		name           VARCHAR(255) NOT NULL,
		latitude       DOUBLE       NOT NULL,
		longitude      DOUBLE       NOT NULL,
		status         VARCHAR(16)  NOT NULL,
		power_output   DOUBLE       NOT NULL,
		connector_type VARCHAR(16)  NOT NULL,
		owner_id       CHAR(36)     NOT NULL,
		created_at     DATETIME(6)  NOT NULL,
		updated_at     DATETIME(6)  NOT NULL,
		KEY idx_stations_filter (status, connector_type),
		KEY idx_stations_owner (owner_id),
		CONSTRAINT fk_stations_owner FOREIGN KEY (owner_id) REFERENCES users (id)
	)`,
}

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
