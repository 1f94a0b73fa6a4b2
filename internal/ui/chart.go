package ui

import (
	"strings"

	"github.com/Mohsinsiddi/gasmon/internal/fees"
)

const (
	barFull = "█"
	barTick = "▏"
)

// BarChart draws one horizontal bar per bucket, scaled so the largest
// bucket spans width cells.
func BarChart(buckets []fees.Bucket, width int) string {
	if len(buckets) == 0 {
		return Meta("no data") + "\n"
	}
	if width < 1 {
		width = 1
	}

	keyWidth := 0
	var top float64
	for _, b := range buckets {
		keyWidth = max(keyWidth, len(b.Key))
		top = max(top, b.TotalFeeETH)
	}

	var sb strings.Builder
	for _, b := range buckets {
		n := barLength(b.TotalFeeETH, top, width)
		bar := strings.Repeat(barFull, n)
		if n == 0 && b.TotalFeeETH > 0 {
			bar = barTick
		}
		sb.WriteString(Meta(pad(b.Key, keyWidth, false)))
		sb.WriteString(" ")
		sb.WriteString(StyleBar.Render(pad(bar, width, false)))
		sb.WriteString(" ")
		sb.WriteString(Val(FormatETH(b.TotalFeeETH)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func barLength(v, top float64, width int) int {
	if top <= 0 || v <= 0 {
		return 0
	}
	return int(v / top * float64(width))
}
