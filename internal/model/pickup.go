package model

import "time"

// PickupStatus は受け取り予定のステータスを表す。
type PickupStatus string

const (
	// PickupStatusScheduled は予定済みの受け取り。
	PickupStatusScheduled PickupStatus = "scheduled"
	// PickupStatusCompleted は完了した受け取り。
	PickupStatusCompleted PickupStatus = "completed"
)

// Label は画面表示用のステータス名を返す。
func (s PickupStatus) Label() string {
	if s == PickupStatusCompleted {
		return "Completed"
	}
	return "Scheduled"
}

// PickupRecord はレストランとチャリティ間の受け渡し予定を表す。
// ScheduledAtの日付部分でスケジュール画面のフィルタを行う。
type PickupRecord struct {
	ID          string
	ScheduledAt time.Time
	TimeLabel   string // 表示用の時刻（例: "2:00 PM"）
	Status      PickupStatus
	Restaurant  string
	Charity     string
	Address     string
	Items       []string
}

// Counterpart は閲覧者のロールから見た相手側の組織名を返す。
// restaurantにはチャリティ名、それ以外にはレストラン名を返す。
func (p PickupRecord) Counterpart(role Role) string {
	if role == RoleRestaurant {
		return p.Charity
	}
	return p.Restaurant
}
