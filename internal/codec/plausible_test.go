package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qmtcli/pkg/contracts/domain"
)

func TestDecoder_Plausible(t *testing.T) {
	valid := RawRecord{Timestamp: 1704124800, Open: 10500, High: 10900, Low: 10400, Close: 10570}

	tests := []struct {
		name    string
		layout  domain.BarLayout
		mutate  func(r *RawRecord)
		wantErr bool
	}{
		{name: "valid record", mutate: func(r *RawRecord) {}},
		{name: "all zero", mutate: func(r *RawRecord) { r.Open, r.High, r.Low, r.Close = 0, 0, 0, 0 }, wantErr: true},
		{name: "high below low", mutate: func(r *RawRecord) { r.High = 10000; r.Low = 10200; r.Open = 10100; r.Close = 10100 }, wantErr: true},
		{name: "high below close", mutate: func(r *RawRecord) { r.Close = 11000 }, wantErr: true},
		{name: "low above open", mutate: func(r *RawRecord) { r.Open = 10300 }, wantErr: true},
		{name: "two prices above daily limit", mutate: func(r *RawRecord) { r.High = 1_500_000; r.Close = 1_200_000 }, wantErr: true},
		{
			name:   "same prices fit intraday limit",
			layout: domain.BarLayoutIntraday,
			mutate: func(r *RawRecord) { r.High = 1_500_000; r.Close = 1_200_000 },
		},
		{name: "zero low tolerated", mutate: func(r *RawRecord) { r.Low = 0 }},
		{name: "two zero prices", mutate: func(r *RawRecord) { r.Open = 0; r.Low = 0 }, wantErr: true},
		{
			name:   "just under daily limit",
			mutate: func(r *RawRecord) { r.Open, r.High, r.Low, r.Close = 999_999, 999_999, 999_999, 999_999 },
		},
		{
			name:    "at daily limit",
			mutate:  func(r *RawRecord) { r.Open, r.High, r.Low, r.Close = 1_000_000, 1_000_000, 1_000_000, 1_000_000 },
			wantErr: true,
		},
		{
			name:   "smallest prices",
			mutate: func(r *RawRecord) { r.Open, r.High, r.Low, r.Close = 2, 4, 1, 3 },
		},
		{
			// 10.005 and 10.006 both round to 10.01
			name:    "high below close before rounding",
			mutate:  func(r *RawRecord) { r.Open, r.High, r.Low, r.Close = 10000, 10005, 9990, 10006 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := tt.layout
			if layout == "" {
				layout = domain.BarLayoutDaily
			}
			raw := valid
			tt.mutate(&raw)

			err := NewDecoder("000001", layout).Plausible(raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrImplausible)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecoder_PlausibleIgnoresRounding(t *testing.T) {
	d := NewDecoder("000001", domain.BarLayoutDaily)
	raw := RawRecord{Timestamp: 1704124800, Open: 999_999, High: 999_999, Low: 999_999, Close: 999_999}

	bar, err := d.FromRaw(raw, 0)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, bar.Close)
	assert.NoError(t, d.Plausible(raw))
}
