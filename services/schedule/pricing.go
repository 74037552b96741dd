package schedule

// secondsPerHour is the billing granularity.
const secondsPerHour = 3600

// Quote computes the amount billed for a [start,end) window at the given
// hourly rate. Duration is rounded up to the next whole hour before
// multiplying: a 61-minute window bills as 2 hours.
func Quote(start, end int, hourlyRate float64) float64 {
	if end <= start {
		return 0
	}
	hours := (end - start + secondsPerHour - 1) / secondsPerHour
	return float64(hours) * hourlyRate
}
