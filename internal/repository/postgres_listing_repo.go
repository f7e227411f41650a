package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/foodwaste/internal/model"
)

// PostgresDonationRepo はPostgreSQLを使用した寄付リポジトリ。
type PostgresDonationRepo struct {
	db *sql.DB
}

// NewPostgresDonationRepo はPostgresDonationRepoを生成する。
func NewPostgresDonationRepo(db *sql.DB) *PostgresDonationRepo {
	return &PostgresDonationRepo{db: db}
}

// List は寄付を新しい順に返す。
func (r *PostgresDonationRepo) List(ctx context.Context) ([]*model.DonationRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, quantity, expiry, status, claimed_by, created_at
		 FROM donations ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("寄付一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var donations []*model.DonationRecord
	for rows.Next() {
		d := &model.DonationRecord{}
		var status string
		if err := rows.Scan(&d.ID, &d.Name, &d.Quantity, &d.Expiry, &status, &d.ClaimedBy, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("寄付行の読み取りに失敗しました: %w", err)
		}
		d.Status = model.DonationStatus(status)
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("寄付一覧の走査に失敗しました: %w", err)
	}
	return donations, nil
}

// PostgresPickupRepo はPostgreSQLを使用した受け取り予定リポジトリ。
type PostgresPickupRepo struct {
	db *sql.DB
}

// NewPostgresPickupRepo はPostgresPickupRepoを生成する。
func NewPostgresPickupRepo(db *sql.DB) *PostgresPickupRepo {
	return &PostgresPickupRepo{db: db}
}

// List は受け取り予定を登録順に返す。
func (r *PostgresPickupRepo) List(ctx context.Context) ([]*model.PickupRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, scheduled_at, time_label, status, restaurant, charity, address, items
		 FROM pickups ORDER BY position ASC, scheduled_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("受け取り予定の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var pickups []*model.PickupRecord
	for rows.Next() {
		p := &model.PickupRecord{}
		var status string
		if err := rows.Scan(&p.ID, &p.ScheduledAt, &p.TimeLabel, &status, &p.Restaurant, &p.Charity, &p.Address, pq.Array(&p.Items)); err != nil {
			return nil, fmt.Errorf("受け取り予定行の読み取りに失敗しました: %w", err)
		}
		p.Status = model.PickupStatus(status)
		pickups = append(pickups, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("受け取り予定の走査に失敗しました: %w", err)
	}
	return pickups, nil
}

// PostgresRestaurantRepo はPostgreSQLを使用した提携レストランリポジトリ。
type PostgresRestaurantRepo struct {
	db *sql.DB
}

// NewPostgresRestaurantRepo はPostgresRestaurantRepoを生成する。
func NewPostgresRestaurantRepo(db *sql.DB) *PostgresRestaurantRepo {
	return &PostgresRestaurantRepo{db: db}
}

// List は提携レストランを表示順に返す。
func (r *PostgresRestaurantRepo) List(ctx context.Context) ([]*model.PartnerRestaurant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, address, distance_miles, available_donations, last_donation_at, image_url
		 FROM partner_restaurants ORDER BY position ASC, name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("提携レストランの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var restaurants []*model.PartnerRestaurant
	for rows.Next() {
		pr := &model.PartnerRestaurant{}
		var last sql.NullTime
		if err := rows.Scan(&pr.ID, &pr.Name, &pr.Address, &pr.DistanceMiles, &pr.AvailableDonations, &last, &pr.ImageURL); err != nil {
			return nil, fmt.Errorf("提携レストラン行の読み取りに失敗しました: %w", err)
		}
		if last.Valid {
			t := last.Time
			pr.LastDonationAt = &t
		}
		restaurants = append(restaurants, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("提携レストランの走査に失敗しました: %w", err)
	}
	return restaurants, nil
}

// compile-time interface check
var (
	_ DonationRepository   = (*PostgresDonationRepo)(nil)
	_ PickupRepository     = (*PostgresPickupRepo)(nil)
	_ RestaurantRepository = (*PostgresRestaurantRepo)(nil)
)
