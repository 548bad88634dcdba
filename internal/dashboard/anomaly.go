package dashboard

import (
	"math"
)

// AnomalyThreshold flags a day once |z| meets or exceeds it.
const AnomalyThreshold = 2.0

// FlagAnomalies scores each day's net GMV against the population mean
// and population standard deviation of the whole series. When the
// deviation is zero the raw distance from the mean stands in for z.
// Single pass, no smoothing or seasonality adjustment.
func FlagAnomalies(daily []DailyPoint) []AnomalyPoint {
	if len(daily) == 0 {
		return []AnomalyPoint{}
	}

	mean := 0.0
	for _, d := range daily {
		mean += d.NetGMV
	}
	mean /= float64(len(daily))

	variance := 0.0
	for _, d := range daily {
		diff := d.NetGMV - mean
		variance += diff * diff
	}
	sd := math.Sqrt(variance / float64(len(daily)))

	out := make([]AnomalyPoint, 0, len(daily))
	for _, d := range daily {
		z := d.NetGMV - mean
		if sd > 0 {
			z /= sd
		}
		out = append(out, AnomalyPoint{
			Date:    d.Date,
			NetGMV:  d.NetGMV,
			Z:       z,
			Anomaly: math.Abs(z) >= AnomalyThreshold,
		})
	}
	return out
}
