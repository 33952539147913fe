package codec

import (
	"time"

	"qmtcli/pkg/contracts/domain"
)

// On-disk layout of a QMT DAT trading record.
//
// A record is two 32-byte halves of eight little-endian uint32 words each.
// The first half carries the timestamp and OHLC prices, the second half
// carries volume and amount.
const (
	HalfSize   = 32
	RecordSize = 2 * HalfSize
	wordSize   = 4

	// price half
	offTimestamp = 2 * wordSize
	offOpen      = 3 * wordSize
	offHigh      = 4 * wordSize
	offLow       = 5 * wordSize
	offClose     = 6 * wordSize

	// volume half
	offVolume = HalfSize + 0*wordSize
	offAmount = HalfSize + 2*wordSize
)

// Scaling rules of the format.
const (
	PriceExp = -3 // prices are stored x1000

	// DailyVolumeMultiplier converts lots to shares for daily files.
	DailyVolumeMultiplier = 100

	// Intraday amounts above this raw value are stored x100.
	IntradayAmountThreshold = 1_000_000
	IntradayAmountExp       = -2

	// OutputPlaces is the number of decimals kept for prices, amount and pct_change.
	OutputPlaces = 2
)

// Valid timestamp window, exclusive on both ends.
const (
	MinTimestamp = 1_500_000_000
	MaxTimestamp = 2_000_000_000
)

// Plausibility limits on raw (x1000) price words, exclusive.
const (
	DailyRawPriceLimit    = 1_000_000
	IntradayRawPriceLimit = 10_000_000
)

// MarketLocation is the exchange time zone used to render timestamps (China Standard Time).
var MarketLocation = time.FixedZone("CST", 8*60*60)

// PriceLimit returns the upper plausibility bound for a raw price word in the given layout.
func PriceLimit(layout domain.BarLayout) uint32 {
	if layout == domain.BarLayoutIntraday {
		return IntradayRawPriceLimit
	}
	return DailyRawPriceLimit
}
