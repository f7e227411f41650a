package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/foodwaste/internal/model"
)

// PostgresProfileRepo はPostgreSQLを使用したプロフィールリポジトリ。
type PostgresProfileRepo struct {
	db *sql.DB
}

// NewPostgresProfileRepo はPostgresProfileRepoを生成する。
func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db}
}

// FindByID は指定IDのプロフィールを取得する。見つからない場合はnilを返す。
func (r *PostgresProfileRepo) FindByID(ctx context.Context, id string) (*model.UserProfile, error) {
	p := &model.UserProfile{}
	var role string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, organization_name, contact_name, user_role, phone, address, bio,
		        notify_email, notify_push, notify_sms, pickup_start, pickup_end, created_at, updated_at
		 FROM profiles WHERE id = $1`,
		id,
	).Scan(
		&p.ID, &p.Email, &p.OrganizationName, &p.ContactName, &role, &p.Phone, &p.Address, &p.Bio,
		&p.Notifications.Email, &p.Notifications.Push, &p.Notifications.SMS,
		&p.PickupHours.Start, &p.PickupHours.End, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile by ID: %w", err)
	}

	p.Role = model.Role(role)
	return p, nil
}

// Upsert はIdPのユーザーメタデータからプロフィールを作成または更新する。
// 空文字列のメタデータ項目は既存値を上書きしない。
func (r *PostgresProfileRepo) Upsert(ctx context.Context, profile *model.UserProfile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, email, organization_name, contact_name, user_role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now(), now())
		 ON CONFLICT (id) DO UPDATE SET
		     email = EXCLUDED.email,
		     organization_name = COALESCE(NULLIF(EXCLUDED.organization_name, ''), profiles.organization_name),
		     contact_name = COALESCE(NULLIF(EXCLUDED.contact_name, ''), profiles.contact_name),
		     user_role = COALESCE(NULLIF(EXCLUDED.user_role, ''), profiles.user_role),
		     updated_at = now()`,
		profile.ID, profile.Email, profile.OrganizationName, profile.ContactName, string(profile.Role),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// UpdateProfile は設定画面のプロフィール項目を更新する。
func (r *PostgresProfileRepo) UpdateProfile(ctx context.Context, profile *model.UserProfile) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE profiles
		 SET organization_name = $2, contact_name = $3, phone = $4, address = $5, bio = $6, updated_at = now()
		 WHERE id = $1`,
		profile.ID, profile.OrganizationName, profile.ContactName, profile.Phone, profile.Address, profile.Bio,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return requireOneRow(result, profile.ID)
}

// UpdateNotifications は通知設定を更新する。
func (r *PostgresProfileRepo) UpdateNotifications(ctx context.Context, userID string, settings model.NotificationSettings) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET notify_email = $2, notify_push = $3, notify_sms = $4, updated_at = now()
		 WHERE id = $1`,
		userID, settings.Email, settings.Push, settings.SMS,
	)
	if err != nil {
		return fmt.Errorf("failed to update notification settings: %w", err)
	}
	return requireOneRow(result, userID)
}

// UpdatePickupHours は受け取り可能時間帯を更新する。
func (r *PostgresProfileRepo) UpdatePickupHours(ctx context.Context, userID string, hours model.PickupHours) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET pickup_start = $2, pickup_end = $3, updated_at = now()
		 WHERE id = $1`,
		userID, hours.Start, hours.End,
	)
	if err != nil {
		return fmt.Errorf("failed to update pickup hours: %w", err)
	}
	return requireOneRow(result, userID)
}

// requireOneRow は更新対象が存在したことを確認する。
func requireOneRow(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("profile not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ ProfileRepository = (*PostgresProfileRepo)(nil)
