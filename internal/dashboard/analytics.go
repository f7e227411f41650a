package dashboard

import (
	"context"

	"github.com/hitoshi/foodwaste/internal/model"
)

// 分析画面のタブ
const (
	TabMonthly = "monthly"
	TabWeekly  = "weekly"
	TabYearly  = "yearly"
)

// ParseTab はtabクエリを解釈する。未知の値はmonthlyとして扱う。
func ParseTab(tab string) string {
	switch tab {
	case TabWeekly, TabYearly:
		return tab
	default:
		return TabMonthly
	}
}

// MonthlyPoint は月別の推移データ。
type MonthlyPoint struct {
	Month     string
	Donations int
	Meals     int
	WasteKg   int
}

// WeeklyPoint は曜日別の推移データ。
type WeeklyPoint struct {
	Day   string
	Value int
}

// CategoryShare は寄付カテゴリの構成比（%）。
type CategoryShare struct {
	Name    string
	Percent int
	Color   string
}

// ImpactPoint は月別のCO₂削減量。
type ImpactPoint struct {
	Month      string
	SavedCO2Kg int
}

// SummaryCard は分析画面上部の集計カード。
type SummaryCard struct {
	Value string
	Label string
}

// Analytics は分析画面に表示するデータ一式。
type Analytics struct {
	Summary    []SummaryCard
	Monthly    []MonthlyPoint
	Weekly     []WeeklyPoint
	Categories []CategoryShare
	Impact     []ImpactPoint
}

// MaxMonthly は月別データのグラフ縦軸の最大値を返す。
func (a *Analytics) MaxMonthly() int {
	m := 0
	for _, p := range a.Monthly {
		m = max(m, p.Donations, p.Meals, p.WasteKg)
	}
	return m
}

// MaxWeekly は曜日別データの最大値を返す。
func (a *Analytics) MaxWeekly() int {
	m := 0
	for _, p := range a.Weekly {
		m = max(m, p.Value)
	}
	return m
}

// MaxImpact はCO₂削減量の最大値を返す。
func (a *Analytics) MaxImpact() int {
	m := 0
	for _, p := range a.Impact {
		m = max(m, p.SavedCO2Kg)
	}
	return m
}

// AnalyticsSource は分析データの取得元。
type AnalyticsSource interface {
	Analytics(ctx context.Context, role model.Role) (*Analytics, error)
}

// StaticAnalytics は固定のサンプルデータを返すAnalyticsSource。
type StaticAnalytics struct{}

// Analytics はロールに応じたサンプルデータを返す。
func (StaticAnalytics) Analytics(_ context.Context, role model.Role) (*Analytics, error) {
	total := SummaryCard{Value: "320", Label: "Meals Received"}
	if role == model.RoleRestaurant {
		total = SummaryCard{Value: "125", Label: "Total Donations"}
	}

	return &Analytics{
		Summary: []SummaryCard{
			total,
			{Value: "250kg", Label: "Food Waste Prevented"},
			{Value: "500kg", Label: "CO₂ Emissions Saved"},
		},
		Monthly: []MonthlyPoint{
			{"Jan", 20, 60, 40},
			{"Feb", 25, 75, 50},
			{"Mar", 30, 90, 60},
			{"Apr", 35, 105, 70},
			{"May", 40, 120, 80},
			{"Jun", 45, 135, 90},
		},
		Weekly: []WeeklyPoint{
			{"Mon", 10}, {"Tue", 15}, {"Wed", 20}, {"Thu", 25}, {"Fri", 30}, {"Sat", 20}, {"Sun", 15},
		},
		Categories: []CategoryShare{
			{"Bakery", 30, "#3498db"},
			{"Produce", 25, "#2ecc71"},
			{"Dairy", 15, "#f1c40f"},
			{"Meals", 20, "#e74c3c"},
			{"Other", 10, "#9b59b6"},
		},
		Impact: []ImpactPoint{
			{"Jan", 100}, {"Feb", 120}, {"Mar", 150}, {"Apr", 180}, {"May", 200}, {"Jun", 220},
		},
	}, nil
}

// compile-time interface check
var _ AnalyticsSource = StaticAnalytics{}
