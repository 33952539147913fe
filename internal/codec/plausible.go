package codec

import (
	"errors"
	"fmt"
)

// ErrImplausible marks a record whose prices fail the sanity checks. Such
// records are dropped by callers rather than treated as decode failures.
var ErrImplausible = errors.New("implausible record")

// Plausible checks the stored prices of raw against the format's sanity
// rules. The checks run on the unscaled words, so rounding to output
// precision never changes which records pass.
func (d *Decoder) Plausible(raw RawRecord) error {
	prices := [4]uint32{raw.Open, raw.High, raw.Low, raw.Close}
	limit := PriceLimit(d.Layout)

	inRange := 0
	for _, p := range prices {
		if p > 0 && p < limit {
			inRange++
		}
	}
	if inRange < 3 {
		return fmt.Errorf("%w: only %d of 4 raw prices inside (0, %d)", ErrImplausible, inRange, limit)
	}

	switch {
	case raw.High < raw.Low:
		return fmt.Errorf("%w: high %d below low %d", ErrImplausible, raw.High, raw.Low)
	case raw.High < max(raw.Open, raw.Close):
		return fmt.Errorf("%w: high %d below open/close", ErrImplausible, raw.High)
	case raw.Low > min(raw.Open, raw.Close):
		return fmt.Errorf("%w: low %d above open/close", ErrImplausible, raw.Low)
	}
	return nil
}
