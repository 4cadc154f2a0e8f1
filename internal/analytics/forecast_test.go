package analytics

import (
	"errors"
	"testing"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverage(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		window int
		want   []any
	}{
		{"window 3", []float64{1, 2, 3, 4, 5}, 3, []any{nil, nil, 2.0, 3.0, 4.0}},
		{"window 1 echoes series", []float64{4, 8}, 1, []any{4.0, 8.0}},
		{"series shorter than window", []float64{1, 2}, 7, []any{nil, nil}},
		{"empty", nil, 7, []any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MovingAverage(tt.series, tt.window)
			require.NoError(t, err)
			assert.Len(t, got, len(tt.series))
			assert.Equal(t, tt.want, nullValues(got))
		})
	}
}

func TestMovingAverageMissingPrefix(t *testing.T) {
	series := make([]float64, 30)
	for i := range series {
		series[i] = float64(i % 5)
	}
	for w := 1; w <= 10; w++ {
		got, err := MovingAverage(series, w)
		require.NoError(t, err)
		for i, v := range got {
			assert.Equal(t, i >= w-1, v.Valid, "window %d position %d", w, i)
		}
	}
}

func TestMovingAverageRejectsWindow(t *testing.T) {
	for _, w := range []int{0, -3} {
		_, err := MovingAverage([]float64{1, 2, 3}, w)
		assert.ErrorIs(t, err, ErrInvalidWindow)
		assert.ErrorIs(t, err, ErrDomain)
	}
}

func TestAccuracy(t *testing.T) {
	actual := []float64{1, 2, 3, 4, 5}
	forecast, err := MovingAverage(actual, 3)
	require.NoError(t, err)

	acc, err := Accuracy(actual, forecast)
	require.NoError(t, err)

	assert.Equal(t, 3, acc.Pairs)
	assert.InDelta(t, 1.0, acc.MAE, 1e-12)
	assert.InDelta(t, 1.0, acc.RMSE, 1e-12)
	assert.InDelta(t, (1.0/4+1.0/5+1.0/6)/3*100, acc.MAPE, 1e-9)
	require.True(t, acc.DirectionAccuracy.Valid)
	assert.InDelta(t, 100.0, acc.DirectionAccuracy.Value, 1e-12)
}

func TestAccuracyDirection(t *testing.T) {
	actual := []float64{10, 12, 11, 11}
	forecast := []domain.NullFloat{domain.Float(10), domain.Float(11), domain.Float(12), domain.Float(13)}

	acc, err := Accuracy(actual, forecast)
	require.NoError(t, err)
	// steps: (+2,+1) match, (-1,+1) miss, (0,+1) match
	assert.InDelta(t, 200.0/3, acc.DirectionAccuracy.Value, 1e-9)
}

func TestAccuracySinglePair(t *testing.T) {
	acc, err := Accuracy([]float64{3, 5}, []domain.NullFloat{domain.Missing(), domain.Float(4)})
	require.NoError(t, err)
	assert.Equal(t, 1, acc.Pairs)
	assert.False(t, acc.DirectionAccuracy.Valid)
}

func TestAccuracyErrors(t *testing.T) {
	_, err := Accuracy([]float64{1, 2}, []domain.NullFloat{domain.Float(1)})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Accuracy([]float64{1, 2}, []domain.NullFloat{domain.Missing(), domain.Missing()})
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.False(t, errors.Is(err, ErrDomain))
}

func TestBuildForecast(t *testing.T) {
	series := []domain.DemandPoint{
		{Date: day(0), Units: 10},
		{Date: day(1), Units: 20},
		{Date: day(2), Units: 30},
		{Date: day(3), Units: 0},
	}

	res, err := BuildForecast(series, 2)
	require.NoError(t, err)
	require.Len(t, res.Points, 4)
	assert.Equal(t, 2, res.Window)

	assert.False(t, res.Points[0].Forecast.Valid)
	assert.False(t, res.Points[0].PctError.Valid)

	p := res.Points[2]
	assert.InDelta(t, 15.0, p.Forecast.Value, 1e-12)
	assert.InDelta(t, 15.0, p.Error.Value, 1e-12)
	assert.InDelta(t, 15.0/30.01*100, p.PctError.Value, 1e-9)

	last := res.Points[3]
	assert.InDelta(t, -25.0, last.Error.Value, 1e-12)
	assert.InDelta(t, 25.0, last.AbsError.Value, 1e-12)
	assert.InDelta(t, -25.0/0.01*100, last.PctError.Value, 1e-6)

	require.NotNil(t, res.Accuracy)
	assert.Equal(t, 3, res.Accuracy.Pairs)
}

func TestBuildForecastInsufficientData(t *testing.T) {
	series := []domain.DemandPoint{{Date: day(0), Units: 5}, {Date: day(1), Units: 6}}

	res, err := BuildForecast(series, DefaultForecastWindow)
	require.NoError(t, err)
	assert.Nil(t, res.Accuracy)
	assert.Len(t, res.Points, 2)

	_, err = BuildForecast(series, 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestDailyDemand(t *testing.T) {
	records := []domain.SalesRecord{
		rec(2, "S1", "P1", 4),
		rec(0, "S1", "P1", 1),
		rec(0, "S2", "P2", 2),
		rec(5, "S1", "P2", 3),
	}

	got := DailyDemand(records)
	require.Len(t, got, 3)
	assert.Equal(t, day(0), got[0].Date)
	assert.Equal(t, 3.0, got[0].Units)
	assert.Equal(t, day(2), got[1].Date)
	assert.Equal(t, day(5), got[2].Date)
	assert.Equal(t, []float64{3, 4, 3}, Values(got))
}
