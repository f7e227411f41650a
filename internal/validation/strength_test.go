package validation

import "testing"

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		pw   string
		want int
	}{
		{"", 0},
		{"abc", 0},
		{"abcdefgh", 1},
		{"Abc", 1},
		{"1", 1},
		{"!", 1},
		{"Abcdefgh", 2},
		{"Abcdefg1", 3},
		{"Abcdef1!", 4},
		{"pass word", 1},
		{"ÄBCDEFG1", 3},
	}
	for _, tt := range tests {
		if got := PasswordStrength(tt.pw); got != tt.want {
			t.Errorf("PasswordStrength(%q) = %d, want %d", tt.pw, got, tt.want)
		}
	}
}

// スコアは常に0〜4の範囲に収まる
func TestPasswordStrength_Range(t *testing.T) {
	inputs := []string{"", " ", "a", "A1!", "aaaaaaaaaaaaaaaaaaaa", "Z9$Z9$Z9$", "日本語のパスワード1"}
	for _, pw := range inputs {
		if s := PasswordStrength(pw); s < 0 || s > 4 {
			t.Errorf("PasswordStrength(%q) = %d out of range", pw, s)
		}
	}
}

func TestStrengthLabel(t *testing.T) {
	want := map[int]string{0: "Weak", 1: "Weak", 2: "Fair", 3: "Good", 4: "Strong"}
	for score, label := range want {
		if got := StrengthLabel(score); got != label {
			t.Errorf("StrengthLabel(%d) = %q, want %q", score, got, label)
		}
	}
}
