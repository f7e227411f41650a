// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/foodwaste/internal/model"
)

// ProfileRepository は組織プロフィールの永続化インターフェース。
type ProfileRepository interface {
	// FindByID は指定IDのプロフィールを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.UserProfile, error)

	// Upsert はIdPのユーザーメタデータからプロフィールを作成または更新する。
	// 組織名・担当者名・ロールのみを上書きし、設定画面で変更した項目は保持する。
	Upsert(ctx context.Context, profile *model.UserProfile) error

	// UpdateProfile は設定画面のプロフィール項目を更新する。
	UpdateProfile(ctx context.Context, profile *model.UserProfile) error

	// UpdateNotifications は通知設定を更新する。
	UpdateNotifications(ctx context.Context, userID string, settings model.NotificationSettings) error

	// UpdatePickupHours は受け取り可能時間帯を更新する。
	UpdatePickupHours(ctx context.Context, userID string, hours model.PickupHours) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// ContactRepository はお問い合わせ送信内容の永続化インターフェース。
type ContactRepository interface {
	// Create は送信内容を保存する。
	Create(ctx context.Context, submission *model.ContactSubmission) error
	// DeleteOlderThan は指定時刻より前の送信内容を削除し、削除件数を返す。
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// DonationRepository は寄付一覧の読み取りインターフェース。
type DonationRepository interface {
	// List は寄付を新しい順に返す。
	List(ctx context.Context) ([]*model.DonationRecord, error)
}

// PickupRepository は受け取り予定の読み取りインターフェース。
type PickupRepository interface {
	// List は受け取り予定を登録順に返す。日付によるフィルタは呼び出し側で行う。
	List(ctx context.Context) ([]*model.PickupRecord, error)
}

// RestaurantRepository は提携レストランの読み取りインターフェース。
type RestaurantRepository interface {
	// List は提携レストランを表示順に返す。
	List(ctx context.Context) ([]*model.PartnerRestaurant, error)
}
