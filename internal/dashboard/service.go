package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/foodwaste/internal/model"
	"github.com/hitoshi/foodwaste/internal/repository"
)

// ScheduleView はスケジュール画面の表示内容。
type ScheduleView struct {
	Selected time.Time
	Previous time.Time
	Next     time.Time
	Pickups  []model.PickupRecord
}

// Service はダッシュボード各画面のデータを組み立てる。
type Service struct {
	donations   repository.DonationRepository
	pickups     repository.PickupRepository
	restaurants repository.RestaurantRepository
	analytics   AnalyticsSource
	loc         *time.Location
	now         func() time.Time
}

// NewService はServiceを生成する。locはスケジュールの日付比較に使うタイムゾーン。
func NewService(
	donations repository.DonationRepository,
	pickups repository.PickupRepository,
	restaurants repository.RestaurantRepository,
	analytics AnalyticsSource,
	loc *time.Location,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if analytics == nil {
		analytics = StaticAnalytics{}
	}
	return &Service{
		donations:   donations,
		pickups:     pickups,
		restaurants: restaurants,
		analytics:   analytics,
		loc:         loc,
		now:         time.Now,
	}
}

// Location はスケジュールの日付比較に使うタイムゾーンを返す。
func (s *Service) Location() *time.Location {
	return s.loc
}

// Schedule は選択日の受け取り予定を返す。dateParamが空または不正な場合は当日。
func (s *Service) Schedule(ctx context.Context, dateParam string) (*ScheduleView, error) {
	selected := ParseSelectedDate(dateParam, s.now(), s.loc)

	records, err := s.pickups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pickups: %w", err)
	}
	all := make([]model.PickupRecord, 0, len(records))
	for _, r := range records {
		all = append(all, *r)
	}

	return &ScheduleView{
		Selected: selected,
		Previous: selected.AddDate(0, 0, -1),
		Next:     selected.AddDate(0, 0, 1),
		Pickups:  FilterPickupsByDate(all, selected, s.loc),
	}, nil
}

// Donations はレストラン向けの寄付一覧を返す。
func (s *Service) Donations(ctx context.Context) ([]model.DonationRecord, error) {
	records, err := s.donations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	result := make([]model.DonationRecord, 0, len(records))
	for _, r := range records {
		result = append(result, *r)
	}
	return result, nil
}

// Restaurants はチャリティ向けの提携レストランを検索語で絞り込んで返す。
func (s *Service) Restaurants(ctx context.Context, query string) ([]model.PartnerRestaurant, error) {
	records, err := s.restaurants.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	all := make([]model.PartnerRestaurant, 0, len(records))
	for _, r := range records {
		all = append(all, *r)
	}
	return SearchRestaurants(all, query), nil
}

// Analytics はロールに応じた分析データを返す。
func (s *Service) Analytics(ctx context.Context, role model.Role) (*Analytics, error) {
	a, err := s.analytics.Analytics(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to load analytics: %w", err)
	}
	return a, nil
}
