package dataprocessing

import (
	"time"

	"slapulse/pkg/contracts/domain"
)

// Delays up to this many days are "fora_prazo"; longer ones are "atrasado".
const minorDelayDays = 2

// ClassifySLA rates a delivery against its expected date. Both arguments are
// YYYY-MM-DD or empty. An empty delivery date means not delivered and yields
// no delay. A delivery with no usable expected date has nothing to miss and
// counts as within the deadline.
func ClassifySLA(expected, delivered string) (domain.SLAStatus, *int) {
	deliveredAt, err := time.Parse(time.DateOnly, delivered)
	if err != nil {
		return domain.SLANotDelivered, nil
	}

	expectedAt, err := time.Parse(time.DateOnly, expected)
	if err != nil {
		return domain.SLAWithinDeadline, domain.IntPtr(0)
	}

	days := int(deliveredAt.Sub(expectedAt).Hours() / 24)
	switch {
	case days <= 0:
		return domain.SLAWithinDeadline, domain.IntPtr(0)
	case days <= minorDelayDays:
		return domain.SLAOutsideDeadline, domain.IntPtr(days)
	default:
		return domain.SLALate, domain.IntPtr(days)
	}
}
