package chart_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3r1v3/Cryptifica/internal/chart"
)

func TestRenderAndRelease(t *testing.T) {
	renderer := chart.NewRenderer(nil)

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, 0, 30)
	prices := make([]float64, 0, 30)
	for i := 0; i < 30; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
		prices = append(prices, 60000+float64(i)*125.5)
	}

	handle, err := renderer.Render(dates, prices)
	require.NoError(t, err)
	require.NotEmpty(t, handle.Path())

	data, err := os.ReadFile(handle.Path())
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte("\x89PNG"), data[:4], "output must be a PNG")

	require.NoError(t, handle.Release())
	_, err = os.Stat(handle.Path())
	assert.True(t, os.IsNotExist(err), "release must remove the file")
}

func TestRenderRejectsDegenerateInput(t *testing.T) {
	renderer := chart.NewRenderer(nil)

	_, err := renderer.Render(nil, nil)
	require.Error(t, err)

	_, err = renderer.Render(
		[]time.Time{time.Now()},
		[]float64{1},
	)
	require.Error(t, err)

	_, err = renderer.Render(
		[]time.Time{time.Now(), time.Now().Add(time.Hour)},
		[]float64{1},
	)
	require.Error(t, err)
}
