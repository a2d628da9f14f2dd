package storage

import (
	"fmt"
	"strings"
)

// Point is a trace point in data coordinates.
type Point struct{ X, Y float64 }

// TraceToSVG renders one or more traces as polylines on a dark background.
// Y is fixed to [0, yMax] so traces of a run share one scale; yMax <= 0 fits
// the data.
func TraceToSVG(traces [][]Point, colors []string, width, height int, yMax float64) string {
	var all []Point
	for _, tr := range traces {
		all = append(all, tr...)
	}
	if len(all) < 2 {
		return ""
	}

	minX, maxX := all[0].X, all[0].X
	maxY := all[0].Y
	for _, p := range all {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	if yMax > 0 {
		maxY = yMax
	}
	rangeX := maxX - minX
	if rangeX == 0 {
		rangeX = 1
	}
	if maxY <= 0 {
		maxY = 1
	}
	pad := float64(height) * 0.05
	plotH := float64(height) - 2*pad

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, tr := range traces {
		if len(tr) < 2 {
			continue
		}
		color := "#00ff88"
		if i < len(colors) {
			color = colors[i]
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for j, p := range tr {
			x := (p.X - minX) / rangeX * float64(width)
			y := pad + plotH - p.Y/maxY*plotH
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// RecordTraces splits records into primary and secondary traces.
func RecordTraces(records []Record, secondary bool) [][]Point {
	primary := make([]Point, len(records))
	var sec []Point
	if secondary {
		sec = make([]Point, len(records))
	}
	for i, r := range records {
		primary[i] = Point{X: r.Time, Y: r.Primary}
		if secondary {
			sec[i] = Point{X: r.Time, Y: r.Secondary}
		}
	}
	if secondary {
		return [][]Point{primary, sec}
	}
	return [][]Point{primary}
}
