package analytics

import (
	"errors"
	"fmt"
	"math"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"gonum.org/v1/gonum/floats"
)

// DefaultForecastWindow is the moving-average window used by the dashboard.
const DefaultForecastWindow = 7

// MovingAverage returns the trailing moving average of series.
// Position i holds the mean of series[i-window+1 : i+1]; the first window-1
// positions are missing.
func MovingAverage(series []float64, window int) ([]domain.NullFloat, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidWindow, window)
	}

	out := make([]domain.NullFloat, len(series))
	for i := window - 1; i < len(series); i++ {
		out[i] = domain.Float(floats.Sum(series[i-window+1:i+1]) / float64(window))
	}
	return out, nil
}

// Accuracy scores a forecast against the actual series. Pairs where either side
// is missing are dropped before any metric is computed.
func Accuracy(actual []float64, forecast []domain.NullFloat) (domain.ForecastAccuracy, error) {
	if len(actual) != len(forecast) {
		return domain.ForecastAccuracy{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(actual), len(forecast))
	}

	a := make([]float64, 0, len(actual))
	f := make([]float64, 0, len(actual))
	for i := range actual {
		if math.IsNaN(actual[i]) || !forecast[i].Finite() {
			continue
		}
		a = append(a, actual[i])
		f = append(f, forecast[i].Value)
	}
	if len(a) == 0 {
		return domain.ForecastAccuracy{}, ErrInsufficientData
	}

	var absSum, sqSum, pctSum float64
	for i := range a {
		e := a[i] - f[i]
		absSum += math.Abs(e)
		sqSum += e * e
		// +1 keeps zero-demand days from dividing by zero.
		pctSum += math.Abs(e) / (a[i] + 1)
	}
	n := float64(len(a))

	acc := domain.ForecastAccuracy{
		Pairs: len(a),
		MAE:   absSum / n,
		RMSE:  math.Sqrt(sqSum / n),
		MAPE:  pctSum / n * 100,
	}

	if len(a) >= 2 {
		matches := 0
		for i := 1; i < len(a); i++ {
			if (a[i]-a[i-1])*(f[i]-f[i-1]) >= 0 {
				matches++
			}
		}
		acc.DirectionAccuracy = domain.Float(float64(matches) / float64(len(a)-1) * 100)
	}

	return acc, nil
}

// BuildForecast runs the moving average over a demand series and builds the
// actual-vs-forecast table with its accuracy metrics.
func BuildForecast(series []domain.DemandPoint, window int) (domain.ForecastResult, error) {
	values := Values(series)
	ma, err := MovingAverage(values, window)
	if err != nil {
		return domain.ForecastResult{}, err
	}

	points := make([]domain.ForecastPoint, len(series))
	for i, p := range series {
		pt := domain.ForecastPoint{Date: p.Date, Actual: p.Units, Forecast: ma[i]}
		if ma[i].Valid {
			e := p.Units - ma[i].Value
			pt.Error = domain.Float(e)
			pt.AbsError = domain.Float(math.Abs(e))
			pt.PctError = domain.Float(e / (p.Units + 0.01) * 100)
		}
		points[i] = pt
	}

	result := domain.ForecastResult{Window: window, Points: points}
	acc, err := Accuracy(values, ma)
	switch {
	case err == nil:
		result.Accuracy = &acc
	case errors.Is(err, ErrInsufficientData):
		// no complete window yet; Accuracy stays nil
	default:
		return domain.ForecastResult{}, err
	}
	return result, nil
}
