package dashboard

import "github.com/hitoshi/foodwaste/internal/model"

// Activity はダッシュボードの最近のアクティビティ。
type Activity struct {
	Title       string
	Description string
	Time        string
}

// QuickAction はダッシュボードのクイックアクション。
type QuickAction struct {
	Label string
	Path  string
	Icon  string
}

// Copy はロールごとに切り替わる画面上の文言。
// restaurant以外のロールはすべてcharity向けの文言になる。
type Copy struct {
	RoleTitle string

	WelcomeTitle    string
	WelcomeSubtitle string

	ListingTitle  string
	ListingBody   string
	ListingAction string
	ListingPath   string

	ScheduleBody string

	ScheduleIntro       string
	CounterpartLabel    string
	EmptySchedule       string
	EmptyScheduleAction string
	EmptySchedulePath   string

	DonationsSeries string
	DailySeries     string

	RecentActivity []Activity
	QuickActions   []QuickAction
}

// CopyFor はロールに応じた文言を返す。
func CopyFor(role model.Role) Copy {
	if role == model.RoleRestaurant {
		return restaurantCopy()
	}
	return charityCopy()
}

func restaurantCopy() Copy {
	return Copy{
		RoleTitle:           "Restaurant",
		WelcomeTitle:        "Welcome to your Restaurant Dashboard",
		WelcomeSubtitle:     "Manage your food donations and make a difference in your community.",
		ListingTitle:        "Available Donations",
		ListingBody:         "View and manage your currently active food donations.",
		ListingAction:       "Manage Donations",
		ListingPath:         "/dashboard/donations",
		ScheduleBody:        "View and manage upcoming scheduled food pickups.",
		ScheduleIntro:       "Manage your scheduled food donation pickups.",
		CounterpartLabel:    "Charity",
		EmptySchedule:       "No pickup scheduled for this date. List more food items to get scheduled pickups.",
		EmptyScheduleAction: "Add New Donation",
		EmptySchedulePath:   "/dashboard/donations",
		DonationsSeries:     "Donations",
		DailySeries:         "Daily Donations",
		RecentActivity: []Activity{
			{"Donation Confirmed", "Charity Food Bank has confirmed pickup for your donation.", "2 hours ago"},
			{"New Donation Created", "You've listed 5kg of bread and pastries for donation.", "Yesterday"},
			{"Pickup Scheduled", "Hope Kitchen will pick up your donation tomorrow at 2PM.", "2 days ago"},
		},
		QuickActions: []QuickAction{
			{"Add Donation", "/dashboard/donations", "plus"},
			{"View Calendar", "/dashboard/schedule", "calendar"},
			{"Impact Report", "/dashboard/analytics", "bar-chart"},
			{"Local Charities", "/dashboard/schedule", "users"},
		},
	}
}

func charityCopy() Copy {
	return Copy{
		RoleTitle:           "Charity",
		WelcomeTitle:        "Welcome to your Charity Dashboard",
		WelcomeSubtitle:     "Discover available donations and schedule pickups for your organization.",
		ListingTitle:        "Available Foods",
		ListingBody:         "Browse available food donations from local restaurants.",
		ListingAction:       "Browse Available",
		ListingPath:         "/dashboard/restaurants",
		ScheduleBody:        "Check your scheduled food pickups and delivery details.",
		ScheduleIntro:       "View your scheduled food pickups from restaurants.",
		CounterpartLabel:    "Restaurant",
		EmptySchedule:       "No pickup scheduled for this date. Browse available food to schedule pickups.",
		EmptyScheduleAction: "Browse Available Food",
		EmptySchedulePath:   "/dashboard/restaurants",
		DonationsSeries:     "Meals Received",
		DailySeries:         "Daily Meals",
		RecentActivity: []Activity{
			{"New Food Available", "Fresh Bakery has listed new bread and pastries.", "1 hour ago"},
			{"Pickup Confirmed", "Your pickup from Local Restaurant is confirmed for today at 5PM.", "Yesterday"},
			{"Donation Received", "You've successfully received 10kg of produce from Urban Farm.", "3 days ago"},
		},
		QuickActions: []QuickAction{
			{"Find Food", "/dashboard/restaurants", "search"},
			{"Schedule Pickup", "/dashboard/schedule", "calendar"},
			{"Pickup History", "/dashboard/schedule", "clock"},
			{"Impact Report", "/dashboard/analytics", "bar-chart"},
		},
	}
}

// SampleProfile は未ログインで設定画面を開いた場合に表示するサンプルのプロフィール。
func SampleProfile(role model.Role) model.UserProfile {
	p := model.UserProfile{
		OrganizationName: "Hope Community Kitchen",
		ContactName:      "John Doe",
		Email:            "contact@example.com",
		Phone:            "(555) 123-4567",
		Address:          "123 Main St, Cityville",
		Bio:              "A community-focused charity that provides meals to those in need while fighting food insecurity.",
		Role:             role,
		Notifications:    model.NotificationSettings{Email: true, Push: true},
		PickupHours:      model.PickupHours{Start: "09:00", End: "17:00"},
	}
	if role == model.RoleRestaurant {
		p.OrganizationName = "Fresh Eats Restaurant"
		p.Bio = "A modern restaurant focused on fresh, sustainable ingredients and minimizing food waste."
	}
	return p
}
