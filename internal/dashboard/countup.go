package dashboard

// Statistic はトップページの実績カウンター。
type Statistic struct {
	Label string
	Value int
	Step  int
}

// HomeStatistics はトップページに表示する実績値を返す。
func HomeStatistics() []Statistic {
	stats := []Statistic{
		{Label: "Restaurant Partners", Value: 500},
		{Label: "Charity Organizations", Value: 150},
		{Label: "Meals Saved", Value: 10000},
		{Label: "CO₂ Prevented (kg)", Value: 5000},
	}
	for i := range stats {
		stats[i].Step = CountUpStep(stats[i].Value)
	}
	return stats
}

// CountUpStep はカウントアップの1フレームあたりの増分を返す。
// target/100（切り捨て）で、最小値は1。
func CountUpStep(target int) int {
	return max(1, target/100)
}

// CountUpFrames は0からtargetまでのカウントアップ列を返す。
// 各値はstepずつ増加し、最後の値はtargetで頭打ちになる。targetが0以下の場合は[0]。
func CountUpFrames(target int) []int {
	frames := []int{0}
	if target <= 0 {
		return frames
	}
	step := CountUpStep(target)
	for n := 0; n < target; {
		n = min(n+step, target)
		frames = append(frames, n)
	}
	return frames
}
