package model

import "time"

// DonationStatus は寄付の表示用ステータスを表す。
// 状態遷移ロジックは持たない。
type DonationStatus string

const (
	// DonationStatusAvailable は受け取り先が未定の寄付。
	DonationStatusAvailable DonationStatus = "available"
	// DonationStatusClaimed はチャリティが受け取りを申し込んだ寄付。
	DonationStatusClaimed DonationStatus = "claimed"
	// DonationStatusCompleted は受け渡しが完了した寄付。
	DonationStatusCompleted DonationStatus = "completed"
)

// Label は画面表示用のステータス名を返す。
func (s DonationStatus) Label() string {
	switch s {
	case DonationStatusAvailable:
		return "Available"
	case DonationStatusClaimed:
		return "Claimed"
	case DonationStatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// DonationRecord はレストランが登録した余剰食品を表す。
type DonationRecord struct {
	ID        string
	Name      string
	Quantity  string
	Expiry    string
	Status    DonationStatus
	ClaimedBy string // 未申込の場合は空文字列
	CreatedAt time.Time
}

// PartnerRestaurant はチャリティ向けに表示する提携レストランを表す。
type PartnerRestaurant struct {
	ID                 string
	Name               string
	Address            string
	DistanceMiles      float64
	AvailableDonations int
	LastDonationAt     *time.Time
	ImageURL           string
}
