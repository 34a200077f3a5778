package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"mailbot/internal/logger"
	"mailbot/internal/model"
	"mailbot/internal/repository"
)

// InitializeDatabase creates the user records table if it doesn't exist.
// The record column holds the same signed blob the file backend writes,
// so the signing contract is identical across backends.
func InitializeDatabase(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS user_records (
		user_id TEXT PRIMARY KEY,
		record TEXT NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create user_records table: %w", err)
	}
	return nil
}

type PostgresUserRepository struct {
	db     *sql.DB
	codec  *repository.RecordCodec
	logger *logger.Logger
}

func NewPostgresUserRepository(db *sql.DB, secret string, logger *logger.Logger) *PostgresUserRepository {
	return &PostgresUserRepository{
		db:     db,
		codec:  repository.NewRecordCodec(secret),
		logger: logger,
	}
}

func (r *PostgresUserRepository) Put(ctx context.Context, record *model.UserRecord) error {
	signed, err := r.codec.Encode(record)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO user_records (user_id, record, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (user_id) DO UPDATE SET record = $2, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, record.UserID, signed); err != nil {
		return fmt.Errorf("failed to store user record: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) Get(ctx context.Context, userID string) (*model.UserRecord, error) {
	var signed string
	err := r.db.QueryRowContext(ctx,
		`SELECT record FROM user_records WHERE user_id = $1`, userID).Scan(&signed)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user record: %w", err)
	}

	record, err := r.codec.Decode(signed)
	if err != nil {
		r.logger.Warn("Discarding unverifiable record for user", userID, ":", err)
		return nil, repository.ErrNotFound
	}
	return record, nil
}

func (r *PostgresUserRepository) ListDigestEligible(ctx context.Context) ([]*model.UserRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id, record FROM user_records`)
	if err != nil {
		return nil, fmt.Errorf("failed to list user records: %w", err)
	}
	defer rows.Close()

	var users []*model.UserRecord
	for rows.Next() {
		var userID, signed string
		if err := rows.Scan(&userID, &signed); err != nil {
			return nil, fmt.Errorf("failed to scan user record: %w", err)
		}
		record, err := r.codec.Decode(signed)
		if err != nil {
			r.logger.Warn("Discarding unverifiable record for user", userID, ":", err)
			continue
		}
		if record.Preferences.DigestEnabled {
			users = append(users, record)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user records: %w", err)
	}
	return users, nil
}
