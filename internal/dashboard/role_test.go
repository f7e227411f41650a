package dashboard

import (
	"testing"

	"github.com/hitoshi/foodwaste/internal/model"
)

func TestResolveRole(t *testing.T) {
	tests := []struct {
		name    string
		profile *model.UserProfile
		query   string
		want    model.Role
	}{
		{"未指定はrestaurant", nil, "", model.RoleRestaurant},
		{"クエリのcharity", nil, "charity", model.RoleCharity},
		{"未知の値はそのまま", nil, "volunteer", model.Role("volunteer")},
		{"空白のみは未指定扱い", nil, "  ", model.RoleRestaurant},
		{"プロフィールを優先", &model.UserProfile{Role: model.RoleCharity}, "restaurant", model.RoleCharity},
		{"ロールなしプロフィールはクエリへ", &model.UserProfile{}, "charity", model.RoleCharity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveRole(tt.profile, tt.query); got != tt.want {
				t.Errorf("ResolveRole = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithRole(t *testing.T) {
	if got := WithRole("/dashboard/schedule", model.RoleCharity); got != "/dashboard/schedule?role=charity" {
		t.Errorf("WithRole = %q", got)
	}
	if got := WithRole("/dashboard/analytics?tab=weekly", model.RoleRestaurant); got != "/dashboard/analytics?role=restaurant&tab=weekly" {
		t.Errorf("WithRole with existing query = %q", got)
	}
	if got := WithRole("/dashboard", ""); got != "/dashboard" {
		t.Errorf("WithRole empty role = %q", got)
	}
}
