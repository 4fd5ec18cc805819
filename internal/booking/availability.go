package booking

// AvailabilityStatus is the coarse availability bucket shown to
// customers.  The 30%/10% thresholds are a contract with the UI and
// its fixtures, not a tunable: exactly 30% remaining is LIMITED
// (the AVAILABLE branch requires strictly more than 30%).
type AvailabilityStatus string

const (
	AvailabilityAvailable  AvailabilityStatus = "AVAILABLE"   // more than 30% left
	AvailabilityLimited    AvailabilityStatus = "LIMITED"     // more than 10%, at most 30%
	AvailabilityAlmostFull AvailabilityStatus = "ALMOST_FULL" // at most 10% left
	AvailabilitySoldOut    AvailabilityStatus = "SOLD_OUT"    // nothing left
	AvailabilityNotSet     AvailabilityStatus = "NOT_SET"     // staff has not entered inventory
	AvailabilityClosed     AvailabilityStatus = "CLOSED"      // location closed that day
)

// Classify buckets the remaining availability of a day.  Rules are
// evaluated in order: a closed day is CLOSED regardless of inventory,
// a day without a staff-entered total is NOT_SET, zero remaining is
// SOLD_OUT (a total deliberately entered as zero included), and
// otherwise the percentage of total still available decides between
// AVAILABLE (>30%), LIMITED (>10%) and ALMOST_FULL.
func Classify(open bool, inventorySet bool, available, total int) AvailabilityStatus {
	if !open {
		return AvailabilityClosed
	}
	if !inventorySet {
		return AvailabilityNotSet
	}
	if available <= 0 || total <= 0 {
		return AvailabilitySoldOut
	}
	pct := float64(available) * 100.0 / float64(total)
	switch {
	case pct > 30:
		return AvailabilityAvailable
	case pct > 10:
		return AvailabilityLimited
	default:
		return AvailabilityAlmostFull
	}
}
