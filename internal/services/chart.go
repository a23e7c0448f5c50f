package services

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	chartWidth  = 800
	chartHeight = 500
	chartMargin = 60.0
)

var (
	chartBarColor  = color.NRGBA{R: 0x2E, G: 0x7D, B: 0x32, A: 0xFF}
	chartTextColor = color.NRGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xFF}
	chartAxisColor = color.NRGBA{R: 0x9E, G: 0x9E, B: 0x9E, A: 0xFF}
)

type ChartData struct {
	Title      string
	Fabric     float64
	Accessory  float64
	Process    float64
	Total      float64
	Exceeded   bool
	AlertColor string
}

// ChartRenderer draws footprint breakdowns as PNG bar charts.
type ChartRenderer struct {
	titleFace font.Face
	labelFace font.Face
}

func NewChartRenderer() (*ChartRenderer, error) {
	parsed, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	newFace := func(size float64) font.Face {
		return truetype.NewFace(parsed, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
	}
	return &ChartRenderer{titleFace: newFace(24), labelFace: newFace(14)}, nil
}

func (cr *ChartRenderer) Render(d ChartData) ([]byte, error) {
	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetColor(color.White)
	dc.Clear()

	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = "CO2 footprint"
	}
	dc.SetFontFace(cr.titleFace)
	dc.SetColor(chartTextColor)
	dc.DrawStringAnchored(title, chartWidth/2, chartMargin/2, 0.5, 0.5)

	bars := []struct {
		label string
		value float64
	}{
		{"Fabric", d.Fabric},
		{"Accessories", d.Accessory},
		{"Processes", d.Process},
		{"Total", d.Total},
	}
	maxVal := 0.0
	for _, b := range bars {
		if b.value > maxVal {
			maxVal = b.value
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	plotW := float64(chartWidth) - 2*chartMargin
	plotH := float64(chartHeight) - 2*chartMargin
	baseY := chartMargin + plotH

	dc.SetColor(chartAxisColor)
	dc.SetLineWidth(1)
	dc.DrawLine(chartMargin, baseY, chartMargin+plotW, baseY)
	dc.Stroke()

	slot := plotW / float64(len(bars))
	barW := slot * 0.6
	alert := parseChartColor(d.AlertColor, chartBarColor)

	dc.SetFontFace(cr.labelFace)
	for i, b := range bars {
		h := b.value / maxVal * (plotH - 20)
		x := chartMargin + float64(i)*slot + (slot-barW)/2

		fill := chartBarColor
		if b.label == "Total" && d.Exceeded {
			fill = alert
		}
		dc.SetColor(fill)
		dc.DrawRectangle(x, baseY-h, barW, h)
		dc.Fill()

		dc.SetColor(chartTextColor)
		dc.DrawStringAnchored(b.label, x+barW/2, baseY+18, 0.5, 0.5)
		dc.DrawStringAnchored(formatKg(b.value)+" kg", x+barW/2, baseY-h-10, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func parseChartColor(s string, fallback color.NRGBA) color.NRGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 3 {
		return fallback
	}
	return color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 0xFF}
}
