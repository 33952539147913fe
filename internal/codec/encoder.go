package codec

import (
	"encoding/binary"

	"github.com/shopspring/decimal"

	"qmtcli/pkg/contracts/domain"
)

// Encode writes bar in the on-disk record layout. It is the inverse of
// Decoder.Decode up to the two-decimal output precision. Unused words are zero.
func Encode(bar domain.Bar, layout domain.BarLayout) []byte {
	return EncodeRaw(ToRaw(bar, layout))
}

// EncodeRaw writes a raw record into a new RecordSize block.
func EncodeRaw(raw RawRecord) []byte {
	block := make([]byte, RecordSize)
	le := binary.LittleEndian
	le.PutUint32(block[offTimestamp:], raw.Timestamp)
	le.PutUint32(block[offOpen:], raw.Open)
	le.PutUint32(block[offHigh:], raw.High)
	le.PutUint32(block[offLow:], raw.Low)
	le.PutUint32(block[offClose:], raw.Close)
	le.PutUint32(block[offVolume:], raw.Volume)
	le.PutUint32(block[offAmount:], raw.Amount)
	return block
}

// ToRaw converts a bar back into stored integers.
func ToRaw(bar domain.Bar, layout domain.BarLayout) RawRecord {
	raw := RawRecord{
		Timestamp: uint32(bar.Time.Unix()),
		Open:      unscale(bar.Open, PriceExp),
		High:      unscale(bar.High, PriceExp),
		Low:       unscale(bar.Low, PriceExp),
		Close:     unscale(bar.Close, PriceExp),
	}

	if layout == domain.BarLayoutIntraday {
		raw.Volume = uint32(bar.Volume)
		// Amounts only carry cents once they cross the threshold.
		if scaled := unscale(bar.Amount, IntradayAmountExp); scaled > IntradayAmountThreshold {
			raw.Amount = scaled
		} else {
			raw.Amount = unscale(bar.Amount, 0)
		}
	} else {
		raw.Volume = uint32(bar.Volume / DailyVolumeMultiplier)
		raw.Amount = unscale(bar.Amount, 0)
	}
	return raw
}

func unscale(v float64, exp int32) uint32 {
	return uint32(decimal.NewFromFloat(v).Shift(-exp).Round(0).IntPart())
}
