package analysis

import (
	"math"

	"github.com/amrwatch/surveillance/pkg/common/models"
)

// minTrendYears is the smallest number of yearly data points that
// supports a least-squares fit with a meaningful significance test.
const minTrendYears = 3

// TemporalTrend builds the yearly resistance series for one antibiotic
// (optionally restricted to an organism) and fits a linear trend to it.
// With fewer than three years of data only the series is populated and
// Trend stays nil; a short surveillance history is a valid input, not an
// error.
func TemporalTrend(isolates []models.Isolate, antibiotic, organism string) models.TrendRecord {
	record := models.TrendRecord{
		Antibiotic:  antibiotic,
		Organism:    organism,
		YearlyRates: YearlyRates(isolates, antibiotic, organism),
	}
	record.Trend = FitTrend(record.YearlyRates)
	return record
}

// FitTrend fits rate = slope*year + intercept by ordinary least squares
// and reports the slope in percentage points per year, the coefficient
// of determination and a two-sided p-value for slope = 0. Returns nil
// when the series has fewer than three points.
//
// A perfectly flat series reports slope 0, R-squared 0 and p-value 1,
// and classifies as "decreasing" because the direction test is a strict
// slope > 0. That boundary is a deliberate convention, covered by tests.
func FitTrend(series []models.YearlyRate) *models.TrendStats {
	n := len(series)
	if n < minTrendYears {
		return nil
	}

	var sumX, sumY float64
	for _, point := range series {
		sumX += float64(point.Year)
		sumY += point.Rate
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var sxx, syy, sxy float64
	for _, point := range series {
		dx := float64(point.Year) - meanX
		dy := point.Rate - meanY
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}

	stats := &models.TrendStats{}
	if syy == 0 {
		// Flat series: zero slope and no explained variance.
		stats.PValue = 1
	} else {
		slope := sxy / sxx
		r := sxy / math.Sqrt(sxx*syy)
		r2 := r * r

		stats.Slope = slope
		stats.RSquared = r2
		stats.PValue = slopePValue(r2, n)
	}

	if stats.Slope > 0 {
		stats.Direction = "increasing"
	} else {
		stats.Direction = "decreasing"
	}
	stats.Significant = stats.PValue < 0.05

	return stats
}

// slopePValue is the two-sided p-value of the t-test that the regression
// slope is zero: t = r*sqrt((n-2)/(1-r^2)) with n-2 degrees of freedom,
// evaluated through the regularized incomplete beta function.
func slopePValue(r2 float64, n int) float64 {
	df := float64(n - 2)
	if 1-r2 <= 0 {
		return 0
	}
	t2 := r2 * df / (1 - r2)
	return regIncBeta(df/2, 0.5, df/(df+t2))
}

// regIncBeta is the regularized incomplete beta function I_x(a, b),
// computed with the continued-fraction expansion.
func regIncBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	lnFront := lnGamma(a+b) - lnGamma(a) - lnGamma(b) + a*math.Log(x) + b*math.Log(1-x)
	front := math.Exp(lnFront)

	if x < (a+1)/(a+b+2) {
		return front * betaCF(a, b, x) / a
	}
	return 1 - front*betaCF(b, a, 1-x)/b
}

func betaCF(a, b, x float64) float64 {
	const (
		maxIterations = 200
		epsilon       = 3e-14
		tiny          = 1e-30
	)

	qab := a + b
	qap := a + 1
	qam := a - 1
	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < tiny {
		d = tiny
	}
	d = 1 / d
	h := d

	for m := 1; m <= maxIterations; m++ {
		fm := float64(m)
		m2 := 2 * fm

		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		h *= d * c

		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		del := d * c
		h *= del

		if math.Abs(del-1) < epsilon {
			break
		}
	}

	return h
}

func lnGamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}
