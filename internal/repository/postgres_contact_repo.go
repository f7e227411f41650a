package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/foodwaste/internal/model"
)

// PostgresContactRepo はPostgreSQLを使用したお問い合わせリポジトリ。
type PostgresContactRepo struct {
	db *sql.DB
}

// NewPostgresContactRepo はPostgresContactRepoを生成する。
func NewPostgresContactRepo(db *sql.DB) *PostgresContactRepo {
	return &PostgresContactRepo{db: db}
}

// Create は送信内容を保存する。
func (r *PostgresContactRepo) Create(ctx context.Context, s *model.ContactSubmission) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_submissions (id, name, email, subject, message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.Name, s.Email, s.Subject, s.Message, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact submission: %w", err)
	}
	return nil
}

// DeleteOlderThan は指定時刻より前の送信内容を削除し、削除件数を返す。
func (r *PostgresContactRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM contact_submissions WHERE created_at < $1`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old contact submissions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// compile-time interface check
var _ ContactRepository = (*PostgresContactRepo)(nil)
