package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"qmtcli/internal/codec"
)

// BaseTimestamp is 2024-01-02 00:00:00 CST
const BaseTimestamp uint32 = 1704124800

// SecondsPerDay spaces daily fixture records
const SecondsPerDay = 86400

// DayRecord encodes one daily record. Prices are in thousandths of a yuan;
// volume is 1234 lots and amount 5678900.
func DayRecord(day int, open, high, low, close uint32) []byte {
	return codec.EncodeRaw(codec.RawRecord{
		Timestamp: BaseTimestamp + uint32(day*SecondsPerDay),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    1234,
		Amount:    5678900,
	})
}

// TwoDayFile returns two daily records closing at 10.57 and 10.86
func TwoDayFile() []byte {
	var buf bytes.Buffer
	buf.Write(DayRecord(0, 10500, 10600, 10400, 10570))
	buf.Write(DayRecord(1, 10600, 10900, 10500, 10860))
	return buf.Bytes()
}

// WriteDAT writes data to dir/name, creating dir, and returns the path
func WriteDAT(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
