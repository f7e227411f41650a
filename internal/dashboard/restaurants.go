package dashboard

import (
	"strings"

	"github.com/hitoshi/foodwaste/internal/model"
)

// SearchRestaurants は名前または住所に検索語を含むレストランを返す。
// 大文字小文字は区別しない。検索語が空の場合は全件を返す。
func SearchRestaurants(restaurants []model.PartnerRestaurant, query string) []model.PartnerRestaurant {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return restaurants
	}

	result := make([]model.PartnerRestaurant, 0, len(restaurants))
	for _, r := range restaurants {
		if strings.Contains(strings.ToLower(r.Name), q) || strings.Contains(strings.ToLower(r.Address), q) {
			result = append(result, r)
		}
	}
	return result
}
