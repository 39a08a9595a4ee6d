package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"tickscope/internal/model"
)

// FormatLargeNumber renders a magnitude with a K/M/B/T suffix.
func FormatLargeNumber(value float64) string {
	abs := math.Abs(value)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%.2fT", value/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", value/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", value/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.2fK", value/1e3)
	default:
		return fmt.Sprintf("%.2f", value)
	}
}

// FormatPrice renders a price with precision suited to its magnitude.
func FormatPrice(price float64) string {
	abs := math.Abs(price)
	switch {
	case abs == 0:
		return "0"
	case abs >= 1e6 || abs < 1e-6:
		return fmt.Sprintf("%.4e", price)
	case abs >= 1:
		return fmt.Sprintf("%.6f", price)
	default:
		return fmt.Sprintf("%.10f", price)
	}
}

// renderSummary prints pool info and the curve rows nearest the current tick.
func renderSummary(w io.Writer, snapshot model.PoolSnapshot, points []model.CurvePoint, quoteToken0 bool) {
	quote, base := snapshot.Token1.Symbol, snapshot.Token0.Symbol
	if quoteToken0 {
		quote, base = base, quote
	}

	fmt.Fprintf(w, "pool %s (%s/%s) block %d\n", snapshot.Address, snapshot.Token0.Symbol, snapshot.Token1.Symbol, snapshot.BlockNumber)
	fmt.Fprintf(w, "current tick %d, liquidity %s, price in %s per %s\n\n", snapshot.Tick, snapshot.Liquidity.String(), quote, base)

	if len(points) == 0 {
		fmt.Fprintln(w, "no initialized ticks in range")
		return
	}

	start, end, nearest := summaryRange(points, snapshot.Tick, 10)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TICK\tPRICE\tNET\tACTIVE\t")
	for i, point := range points[start:end] {
		marker := ""
		if start+i == nearest {
			marker = " <- current"
		}
		active, _ := strconv.ParseFloat(point.LiquidityActive, 64)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			point.Tick, FormatPrice(point.Price), point.LiquidityNet, FormatLargeNumber(active), marker)
	}
	tw.Flush()

	if end-start < len(points) {
		fmt.Fprintf(w, "... %d of %d rows shown, full curve in the output file\n", end-start, len(points))
	}
}

// summaryRange picks up to 2*radius+1 rows centered on the row nearest the
// current tick.
func summaryRange(points []model.CurvePoint, currentTick int32, radius int) (int, int, int) {
	nearest := 0
	for i, point := range points {
		if abs32(point.Tick-currentTick) < abs32(points[nearest].Tick-currentTick) {
			nearest = i
		}
	}

	start := nearest - radius
	if start < 0 {
		start = 0
	}
	end := nearest + radius + 1
	if end > len(points) {
		end = len(points)
	}
	return start, end, nearest
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
