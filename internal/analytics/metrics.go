package analytics

import "math"

// StandardWeekHours is the fixed weekly capacity used as the utilization
// denominator for every person.
const StandardWeekHours = 40.0

// Round1 rounds to one decimal place. Applied only at the final output step;
// intermediate sums stay unrounded.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Utilization expresses hours as a percentage of weekCount standard weeks.
// Zero weeks yield 0, not NaN.
func Utilization(hours float64, weekCount int) float64 {
	if weekCount <= 0 {
		return 0
	}
	return hours / (float64(weekCount) * StandardWeekHours) * 100
}

// Variance is the signed difference between actual and forecast hours:
// positive means over forecast, negative under.
func Variance(actual, forecast float64) float64 {
	return actual - forecast
}

// ForecastCompliance scores how closely actuals tracked the forecast,
// clamped to [0, 100]. A zero forecast is trivially compliant and scores
// 100; this deliberately disagrees with UtilizationRate's zero-denominator
// rule and the two must not be unified.
func ForecastCompliance(actual, forecast float64) float64 {
	if forecast == 0 {
		return 100
	}
	return math.Max(0, 100-math.Abs((actual-forecast)/forecast*100))
}

// UtilizationRate is billable hours as a percentage of forecast hours. A
// zero forecast yields 0, unlike ForecastCompliance.
func UtilizationRate(billable, forecast float64) float64 {
	if forecast <= 0 {
		return 0
	}
	return billable / forecast * 100
}

// Accuracy scores total variance against total forecast; a zero forecast
// scores 100.
func Accuracy(variance, forecast float64) float64 {
	if forecast <= 0 {
		return 100
	}
	return 100 - math.Abs(variance/forecast*100)
}
