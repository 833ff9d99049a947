package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/kapu/youtube-dashboard-go/internal/domain"
	"github.com/kapu/youtube-dashboard-go/pkg/errors"
)

// PostgresStore keeps one row per calendar day with the snapshot as jsonb.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func NewPostgresStore(cfg PostgresConfig, logger *zap.Logger) (*PostgresStore, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewStorageError("failed to open postgres", "init", "", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewStorageError("failed to ping postgres", "init", "", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			date        date PRIMARY KEY,
			captured_at timestamptz NOT NULL,
			payload     jsonb NOT NULL
		)
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.NewStorageError("failed to ensure snapshots table", "init", "", err)
	}

	logger.Info("PostgreSQL snapshot store connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
	)

	return &PostgresStore{db: db, logger: logger}, nil
}

func (ps *PostgresStore) Put(ctx context.Context, date string, snap *domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return errors.NewStorageError("failed to encode snapshot", "put", date, err)
	}

	query := `
		INSERT INTO snapshots (date, captured_at, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (date) DO UPDATE
		SET captured_at = EXCLUDED.captured_at, payload = EXCLUDED.payload
	`
	if _, err := ps.db.ExecContext(ctx, query, date, snap.Timestamp, payload); err != nil {
		ps.logger.Error("Snapshot write failed", zap.String("date", date), zap.Error(err))
		return errors.NewStorageError("failed to write snapshot", "put", date, err)
	}
	return nil
}

func (ps *PostgresStore) Get(ctx context.Context, date string) (*domain.Snapshot, error) {
	var payload []byte
	query := `SELECT payload FROM snapshots WHERE date = $1`
	err := ps.db.QueryRowContext(ctx, query, date).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		ps.logger.Error("Snapshot read failed", zap.String("date", date), zap.Error(err))
		return nil, errors.NewStorageError("failed to read snapshot", "get", date, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, errors.NewStorageError("failed to decode snapshot", "get", date, err)
	}
	return &snap, nil
}

func (ps *PostgresStore) ListDates(ctx context.Context) ([]string, error) {
	query := `SELECT to_char(date, 'YYYY-MM-DD') FROM snapshots ORDER BY date`
	rows, err := ps.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewStorageError("failed to list snapshot dates", "list", "", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, errors.NewStorageError("failed to scan snapshot date", "list", "", err)
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("failed to iterate snapshot dates", "list", "", err)
	}
	return dates, nil
}

func (ps *PostgresStore) PruneOlderThan(ctx context.Context, cutoff string) error {
	result, err := ps.db.ExecContext(ctx, `DELETE FROM snapshots WHERE date < $1`, cutoff)
	if err != nil {
		return errors.NewStorageError("failed to delete expired snapshots", "prune", cutoff, err)
	}
	if deleted, err := result.RowsAffected(); err == nil && deleted > 0 {
		ps.logger.Debug("Expired snapshots removed", zap.Int64("count", deleted))
	}
	return nil
}

func (ps *PostgresStore) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}
