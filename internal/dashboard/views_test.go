package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/foodwaste/internal/model"
)

type mockDonationRepo struct {
	listFn func(ctx context.Context) ([]*model.DonationRecord, error)
}

func (m *mockDonationRepo) List(ctx context.Context) ([]*model.DonationRecord, error) {
	return m.listFn(ctx)
}

type mockPickupRepo struct {
	pickups []*model.PickupRecord
	err     error
}

func (m *mockPickupRepo) List(_ context.Context) ([]*model.PickupRecord, error) {
	return m.pickups, m.err
}

type mockRestaurantRepo struct {
	restaurants []*model.PartnerRestaurant
}

func (m *mockRestaurantRepo) List(_ context.Context) ([]*model.PartnerRestaurant, error) {
	return m.restaurants, nil
}

func sampleRestaurants() []*model.PartnerRestaurant {
	return []*model.PartnerRestaurant{
		{Name: "Fresh Eats Restaurant", Address: "123 Main St, Cityville", AvailableDonations: 3},
		{Name: "Garden Bistro", Address: "456 Oak Ave, Townsville", AvailableDonations: 1},
		{Name: "Urban Kitchen", Address: "789 Pine Blvd, Villagetown", AvailableDonations: 2},
	}
}

func TestSearchRestaurants(t *testing.T) {
	all := make([]model.PartnerRestaurant, 0, 3)
	for _, r := range sampleRestaurants() {
		all = append(all, *r)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Fresh Eats Restaurant", "Garden Bistro", "Urban Kitchen"}},
		{"garden", []string{"Garden Bistro"}},
		{"KITCHEN", []string{"Urban Kitchen"}},
		{"main st", []string{"Fresh Eats Restaurant"}},
		{"ville", []string{"Fresh Eats Restaurant", "Garden Bistro"}},
		{"sushi", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := SearchRestaurants(all, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("SearchRestaurants(%q) returned %d results, want %d", tt.query, len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Name != tt.want[i] {
					t.Errorf("result[%d] = %q, want %q", i, got[i].Name, tt.want[i])
				}
			}
		})
	}
}

func TestService_Schedule(t *testing.T) {
	day := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	repo := &mockPickupRepo{pickups: []*model.PickupRecord{
		{ID: "a", ScheduledAt: day.Add(14 * time.Hour), Status: model.PickupStatusScheduled},
		{ID: "b", ScheduledAt: day.Add(17 * time.Hour), Status: model.PickupStatusCompleted},
		{ID: "c", ScheduledAt: day.Add(37 * time.Hour), Status: model.PickupStatusScheduled},
	}}
	svc := NewService(nil, repo, nil, nil, time.UTC)
	svc.now = func() time.Time { return day.Add(10 * time.Hour) }

	view, err := svc.Schedule(context.Background(), "")
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(view.Pickups) != 2 {
		t.Errorf("today pickups = %d, want 2", len(view.Pickups))
	}
	if FormatDateParam(view.Next) != "2025-06-04" || FormatDateParam(view.Previous) != "2025-06-02" {
		t.Errorf("prev/next = %v / %v", view.Previous, view.Next)
	}

	view, err = svc.Schedule(context.Background(), "2025-06-04")
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(view.Pickups) != 1 || view.Pickups[0].ID != "c" {
		t.Errorf("tomorrow pickups = %+v", view.Pickups)
	}
}

func TestService_ScheduleError(t *testing.T) {
	svc := NewService(nil, &mockPickupRepo{err: errors.New("db down")}, nil, nil, nil)
	if _, err := svc.Schedule(context.Background(), ""); err == nil {
		t.Error("expected error")
	}
}

func TestService_DonationsAndRestaurants(t *testing.T) {
	donations := &mockDonationRepo{listFn: func(context.Context) ([]*model.DonationRecord, error) {
		return []*model.DonationRecord{{Name: "Fresh Bread & Pastries", Status: model.DonationStatusAvailable}}, nil
	}}
	svc := NewService(donations, nil, &mockRestaurantRepo{restaurants: sampleRestaurants()}, nil, time.UTC)

	d, err := svc.Donations(context.Background())
	if err != nil || len(d) != 1 || d[0].Status.Label() != "Available" {
		t.Errorf("Donations = %+v, %v", d, err)
	}

	r, err := svc.Restaurants(context.Background(), "bistro")
	if err != nil || len(r) != 1 || r[0].Name != "Garden Bistro" {
		t.Errorf("Restaurants = %+v, %v", r, err)
	}
}

func TestStaticAnalytics_RoleLabels(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, nil)

	a, err := svc.Analytics(context.Background(), model.RoleRestaurant)
	if err != nil {
		t.Fatal(err)
	}
	if a.Summary[0].Label != "Total Donations" || a.Summary[0].Value != "125" {
		t.Errorf("restaurant summary = %+v", a.Summary[0])
	}
	if a.MaxMonthly() != 135 || a.MaxWeekly() != 30 || a.MaxImpact() != 220 {
		t.Errorf("max values = %d %d %d", a.MaxMonthly(), a.MaxWeekly(), a.MaxImpact())
	}

	a, _ = svc.Analytics(context.Background(), model.Role("volunteer"))
	if a.Summary[0].Label != "Meals Received" {
		t.Errorf("non-restaurant summary = %+v", a.Summary[0])
	}

	total := 0
	for _, c := range a.Categories {
		total += c.Percent
	}
	if total != 100 {
		t.Errorf("category share total = %d, want 100", total)
	}
}

func TestParseTab(t *testing.T) {
	for in, want := range map[string]string{"": TabMonthly, "weekly": TabWeekly, "yearly": TabYearly, "daily": TabMonthly} {
		if got := ParseTab(in); got != want {
			t.Errorf("ParseTab(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCopyFor(t *testing.T) {
	r := CopyFor(model.RoleRestaurant)
	if r.WelcomeTitle != "Welcome to your Restaurant Dashboard" || r.CounterpartLabel != "Charity" {
		t.Errorf("restaurant copy = %+v", r)
	}
	// restaurant以外はcharity向けの文言
	for _, role := range []model.Role{model.RoleCharity, model.RoleAdmin, "volunteer"} {
		c := CopyFor(role)
		if c.WelcomeTitle != "Welcome to your Charity Dashboard" || c.CounterpartLabel != "Restaurant" {
			t.Errorf("CopyFor(%q) = %+v", role, c.WelcomeTitle)
		}
	}
}

func TestCountUp(t *testing.T) {
	if CountUpStep(50) != 1 || CountUpStep(500) != 5 || CountUpStep(10000) != 100 || CountUpStep(0) != 1 {
		t.Error("unexpected count-up step")
	}

	frames := CountUpFrames(250)
	if frames[0] != 0 || frames[len(frames)-1] != 250 {
		t.Errorf("frames start/end = %d/%d", frames[0], frames[len(frames)-1])
	}
	if len(frames) != 126 {
		t.Errorf("frames = %d, want 126", len(frames))
	}
	for i := 1; i < len(frames); i++ {
		if frames[i] <= frames[i-1] || frames[i] > 250 {
			t.Fatalf("frames not increasing/clamped at %d: %v", i, frames[i-1:i+1])
		}
	}

	// 割り切れない場合は最後のフレームでtargetに頭打ちする
	odd := CountUpFrames(1234)
	if odd[len(odd)-1] != 1234 || odd[len(odd)-2] != 1224 {
		t.Errorf("last frames = %v", odd[len(odd)-2:])
	}

	if got := CountUpFrames(0); len(got) != 1 || got[0] != 0 {
		t.Errorf("CountUpFrames(0) = %v", got)
	}

	stats := HomeStatistics()
	if len(stats) != 4 || stats[2].Value != 10000 || stats[2].Step != 100 {
		t.Errorf("home statistics = %+v", stats)
	}
}
