// Package chart renders price history into PNG images the bot can send as photos.
package chart

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	chartlib "github.com/wcharczuk/go-chart/v2"
)

// Handle points at a rendered chart image on disk. The consumer releases it
// after the photo has been sent.
type Handle struct {
	path string
}

// Path returns the location of the rendered image.
func (h *Handle) Path() string {
	if h == nil {
		return ""
	}
	return h.path
}

// Release removes the rendered image from disk.
func (h *Handle) Release() error {
	if h == nil || h.path == "" {
		return nil
	}
	return os.Remove(h.path)
}

// Renderer draws price history charts.
type Renderer struct {
	log *slog.Logger
}

// NewRenderer builds a chart renderer.
func NewRenderer(log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{log: log}
}

// Render draws a time series of prices into a temporary PNG file.
func (r *Renderer) Render(dates []time.Time, prices []float64) (*Handle, error) {
	if len(dates) < 2 || len(dates) != len(prices) {
		return nil, errors.New("render chart: need at least two matching date/price points")
	}

	graph := chartlib.Chart{
		Width:  800,
		Height: 400,
		XAxis: chartlib.XAxis{
			ValueFormatter: chartlib.TimeDateValueFormatter,
		},
		Series: []chartlib.Series{
			chartlib.TimeSeries{
				XValues: dates,
				YValues: prices,
			},
		},
	}

	file, err := os.CreateTemp("", "cryptifica-chart-*.png")
	if err != nil {
		return nil, fmt.Errorf("create chart file: %w", err)
	}

	if err := graph.Render(chartlib.PNG, file); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return nil, fmt.Errorf("render chart: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(file.Name())
		return nil, fmt.Errorf("close chart file: %w", err)
	}

	return &Handle{path: file.Name()}, nil
}
