package codec

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperrors "qmtcli/internal/errors"
	"qmtcli/pkg/contracts/domain"
)

// RawRecord is a trading record exactly as stored, before any scaling.
type RawRecord struct {
	Timestamp uint32
	Open      uint32
	High      uint32
	Low       uint32
	Close     uint32
	Volume    uint32
	Amount    uint32
}

// ReadRaw extracts the stored fields of one record from block.
// Only the first RecordSize bytes are read.
func ReadRaw(block []byte) (RawRecord, error) {
	if len(block) < RecordSize {
		return RawRecord{}, apperrors.NewDecodeError(0,
			fmt.Sprintf("block of %d bytes is shorter than the %d byte record width", len(block), RecordSize))
	}
	le := binary.LittleEndian
	return RawRecord{
		Timestamp: le.Uint32(block[offTimestamp:]),
		Open:      le.Uint32(block[offOpen:]),
		High:      le.Uint32(block[offHigh:]),
		Low:       le.Uint32(block[offLow:]),
		Close:     le.Uint32(block[offClose:]),
		Volume:    le.Uint32(block[offVolume:]),
		Amount:    le.Uint32(block[offAmount:]),
	}, nil
}

// Decoder turns fixed-width blocks of one security into bars.
// It holds no state between calls; the previous close is passed in explicitly.
type Decoder struct {
	Code   string
	Layout domain.BarLayout
}

// NewDecoder creates a decoder for the security code and layout.
func NewDecoder(code string, layout domain.BarLayout) *Decoder {
	if layout == "" {
		layout = domain.BarLayoutDaily
	}
	return &Decoder{Code: code, Layout: layout}
}

// Decode decodes one record. prevClose is the close of the previous bar in the
// same file, or 0 when there is none; pct_change is 0 in that case.
func (d *Decoder) Decode(block []byte, prevClose float64) (domain.Bar, error) {
	raw, err := ReadRaw(block)
	if err != nil {
		return domain.Bar{}, err
	}
	return d.FromRaw(raw, prevClose)
}

// FromRaw scales a raw record into a bar.
func (d *Decoder) FromRaw(raw RawRecord, prevClose float64) (domain.Bar, error) {
	if raw.Timestamp <= MinTimestamp || raw.Timestamp >= MaxTimestamp {
		return domain.Bar{}, apperrors.NewDecodeError(offTimestamp,
			fmt.Sprintf("timestamp %d outside valid range", raw.Timestamp))
	}

	bar := domain.Bar{
		Code:   d.Code,
		Time:   time.Unix(int64(raw.Timestamp), 0).In(MarketLocation),
		Open:   scalePrice(raw.Open),
		High:   scalePrice(raw.High),
		Low:    scalePrice(raw.Low),
		Close:  scalePrice(raw.Close),
		Volume: d.volume(raw.Volume),
		Amount: d.amount(raw.Amount),
	}
	bar.PctChange = PctChange(bar.Close, prevClose)
	return bar, nil
}

func (d *Decoder) volume(raw uint32) int64 {
	if d.Layout == domain.BarLayoutIntraday {
		return int64(raw)
	}
	return int64(raw) * DailyVolumeMultiplier
}

func (d *Decoder) amount(raw uint32) float64 {
	v := decimal.NewFromInt(int64(raw))
	if d.Layout == domain.BarLayoutIntraday && raw > IntradayAmountThreshold {
		v = decimal.New(int64(raw), IntradayAmountExp)
	}
	return toFloat(v)
}

func scalePrice(raw uint32) float64 {
	return toFloat(decimal.New(int64(raw), PriceExp))
}

// PctChange returns the percentage change from prevClose to close, rounded
// to two decimals. It is 0 when prevClose is not positive.
func PctChange(close, prevClose float64) float64 {
	if prevClose <= 0 {
		return 0
	}
	c := decimal.NewFromFloat(close)
	p := decimal.NewFromFloat(prevClose)
	return toFloat(c.Sub(p).Div(p).Mul(decimal.NewFromInt(100)))
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(OutputPlaces).Float64()
	return f
}
