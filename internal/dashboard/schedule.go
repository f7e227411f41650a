package dashboard

import (
	"strconv"
	"time"

	"github.com/hitoshi/foodwaste/internal/model"
)

// dateLayout はスケジュール画面の日付クエリの形式。
const dateLayout = "2006-01-02"

// FilterPickupsByDate は選択日と同じ暦日に予定された受け取りを入力順のまま返す。
// 日付の比較は両方をlocに変換したうえで年月日で行う。
func FilterPickupsByDate(pickups []model.PickupRecord, selected time.Time, loc *time.Location) []model.PickupRecord {
	if loc == nil {
		loc = time.UTC
	}
	sy, sm, sd := selected.In(loc).Date()

	result := make([]model.PickupRecord, 0, len(pickups))
	for _, p := range pickups {
		y, m, d := p.ScheduledAt.In(loc).Date()
		if y == sy && m == sm && d == sd {
			result = append(result, p)
		}
	}
	return result
}

// ParseSelectedDate はdateクエリ（YYYY-MM-DD）をlocの日付として解釈する。
// 空または不正な値の場合はnowのloc上の日付を返す。
func ParseSelectedDate(value string, now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	if value != "" {
		if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
			return t
		}
	}
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// FormatDateParam は日付をdateクエリ用の文字列に変換する。
func FormatDateParam(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatLongDate はスケジュール見出し用の日付（例: "June 3rd, 2025"）を返す。
func FormatLongDate(t time.Time) string {
	return t.Format("January ") + ordinal(t.Day()) + t.Format(", 2006")
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}
