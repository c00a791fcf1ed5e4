// Package chart renders a user's progress as a PNG: water intake as a pie
// next to a calorie bar chart.
package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"nutribot/goals"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	panelWidth  = 512
	panelHeight = 512
)

var (
	colorWater     = drawing.ColorFromHex("2196f3")
	colorRemaining = drawing.ColorFromHex("e0e0e0")
	colorEaten     = drawing.ColorFromHex("ff9800")
	colorBurned    = drawing.ColorFromHex("4caf50")
	colorGoal      = drawing.ColorFromHex("9e9e9e")
)

// Render draws p and returns the encoded PNG.
func Render(p goals.Progress) ([]byte, error) {
	water, err := renderPNG(waterPie(p))
	if err != nil {
		return nil, fmt.Errorf("render water chart: %w", err)
	}
	calories, err := renderPNG(calorieBars(p))
	if err != nil {
		return nil, fmt.Errorf("render calorie chart: %w", err)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, 2*panelWidth, panelHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, 0, panelWidth, panelHeight), water, image.Point{}, draw.Over)
	draw.Draw(canvas, image.Rect(panelWidth, 0, 2*panelWidth, panelHeight), calories, image.Point{}, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

type renderable interface {
	Render(rp gochart.RendererProvider, w io.Writer) error
}

func renderPNG(c renderable) (image.Image, error) {
	var buf bytes.Buffer
	if err := c.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

func waterPie(p goals.Progress) gochart.PieChart {
	var values []gochart.Value
	if p.WaterLoggedML > 0 {
		values = append(values, gochart.Value{
			Value: float64(p.WaterLoggedML),
			Label: fmt.Sprintf("Drunk %d ml", p.WaterLoggedML),
			Style: gochart.Style{FillColor: colorWater},
		})
	}
	if p.WaterRemainingML > 0 {
		values = append(values, gochart.Value{
			Value: float64(p.WaterRemainingML),
			Label: fmt.Sprintf("Left %d ml", p.WaterRemainingML),
			Style: gochart.Style{FillColor: colorRemaining},
		})
	}
	if len(values) == 0 {
		values = append(values, gochart.Value{Value: 1, Label: "No goal", Style: gochart.Style{FillColor: colorRemaining}})
	}

	return gochart.PieChart{
		Title:      fmt.Sprintf("Water, goal %d ml", p.WaterGoalML),
		Width:      panelWidth,
		Height:     panelHeight,
		Background: gochart.Style{Padding: gochart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		Values:     values,
	}
}

func calorieBars(p goals.Progress) gochart.BarChart {
	top := max(p.CaloriesLogged, p.CaloriesBurned, float64(p.CalorieGoal), 1) * 1.1

	return gochart.BarChart{
		Title:      "Calories, kcal",
		Width:      panelWidth,
		Height:     panelHeight,
		BarWidth:   90,
		BarSpacing: 40,
		Background: gochart.Style{Padding: gochart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: []gochart.Value{
			{Value: p.CaloriesLogged, Label: "Eaten", Style: gochart.Style{FillColor: colorEaten, StrokeColor: colorEaten}},
			{Value: p.CaloriesBurned, Label: "Burned", Style: gochart.Style{FillColor: colorBurned, StrokeColor: colorBurned}},
			{Value: float64(p.CalorieGoal), Label: "Goal", Style: gochart.Style{FillColor: colorGoal, StrokeColor: colorGoal}},
		},
	}
}
