package dashboard

import (
	"math"
	"strconv"

	"github.com/Mohsinsiddi/gasmon/internal/fees"
)

// Chart canvas in SVG user units.
const (
	chartWidth   = 900
	chartHeight  = 360
	marginLeft   = 90
	marginRight  = 20
	marginTop    = 20
	marginBottom = 80
	tickCount    = 5
	barFill      = 0.8
)

// Bar is one rectangle of the chart with its axis label position.
type Bar struct {
	X, Y, Width, Height float64
	LabelX, LabelY      float64
	Label               string
	Value               float64
	Count               int
}

// Tick is one y-axis gridline.
type Tick struct {
	Y     float64
	Label string
}

// BarChart is precomputed geometry for the fee chart: x is the bucket key,
// y the total fee in ETH.
type BarChart struct {
	Width, Height         float64
	PlotLeft, PlotTop     float64
	PlotRight, PlotBottom float64
	Max                   float64
	Bars                  []Bar
	Ticks                 []Tick
}

// NewBarChart lays out buckets left to right in their given order.
func NewBarChart(buckets []fees.Bucket) BarChart {
	ch := BarChart{
		Width:      chartWidth,
		Height:     chartHeight,
		PlotLeft:   marginLeft,
		PlotTop:    marginTop,
		PlotRight:  chartWidth - marginRight,
		PlotBottom: chartHeight - marginBottom,
	}

	var top float64
	for _, b := range buckets {
		top = math.Max(top, b.TotalFeeETH)
	}
	ch.Max = niceCeil(top)

	plotW := ch.PlotRight - ch.PlotLeft
	plotH := ch.PlotBottom - ch.PlotTop

	for i := 0; i <= tickCount; i++ {
		v := ch.Max * float64(i) / tickCount
		ch.Ticks = append(ch.Ticks, Tick{
			Y:     ch.PlotBottom - plotH*float64(i)/tickCount,
			Label: strconv.FormatFloat(v, 'g', 4, 64),
		})
	}

	if len(buckets) == 0 {
		return ch
	}
	slot := plotW / float64(len(buckets))
	for i, b := range buckets {
		h := plotH * b.TotalFeeETH / ch.Max
		x := ch.PlotLeft + slot*float64(i) + slot*(1-barFill)/2
		w := slot * barFill
		ch.Bars = append(ch.Bars, Bar{
			X:      x,
			Y:      ch.PlotBottom - h,
			Width:  w,
			Height: h,
			LabelX: x + w/2,
			LabelY: ch.PlotBottom + 14,
			Label:  b.Key,
			Value:  b.TotalFeeETH,
			Count:  b.Count,
		})
	}
	return ch
}

// niceCeil rounds v up to 1, 2 or 5 times a power of ten. Zero and negative
// values yield 1 so the axis is never degenerate.
func niceCeil(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	frac := v / exp
	switch {
	case frac <= 1:
		return exp
	case frac <= 2:
		return 2 * exp
	case frac <= 5:
		return 5 * exp
	}
	return 10 * exp
}
