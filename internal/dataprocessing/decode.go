package dataprocessing

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"qmtcli/internal/codec"
	"qmtcli/internal/config"
	apperrors "qmtcli/internal/errors"
	"qmtcli/pkg/contracts/domain"
)

// DecodeBytes decodes the full contents of one DAT file.
//
// Chunks are decoded in file order and each bar's pct_change is computed
// against the close of the last accepted bar. Records failing the
// plausibility check are counted in Skipped and do not advance the previous
// close. A decode failure aborts the whole file.
//
// Bytes after the last complete chunk are recorded in TrailingBytes under
// the skip policy and rejected as a decode error under the strict policy. A
// non-empty input without a single complete chunk is always a decode error.
func DecodeBytes(code string, layout domain.BarLayout, data []byte, policy config.TrailingChunkPolicy) (*domain.RecordTable, error) {
	decoder := codec.NewDecoder(code, layout)
	table := &domain.RecordTable{
		Code:   code,
		Layout: decoder.Layout,
	}

	if len(data) == 0 {
		return table, nil
	}

	chunks := len(data) / codec.RecordSize
	trailing := len(data) % codec.RecordSize

	if chunks == 0 {
		_, err := codec.ReadRaw(data)
		return nil, err
	}

	if trailing > 0 && policy == config.TrailingChunkStrict {
		offset := int64(chunks * codec.RecordSize)
		err := apperrors.NewDecodeError(offset, "file length is not a multiple of the record width")
		err.Cause = apperrors.NewTrailingChunkError("", offset, trailing)
		return nil, err
	}

	table.Bars = make([]domain.Bar, 0, chunks)
	table.Chunks = chunks
	table.TrailingBytes = trailing

	var prevClose float64
	for i := 0; i < chunks; i++ {
		start := i * codec.RecordSize
		raw, err := codec.ReadRaw(data[start : start+codec.RecordSize])
		if err != nil {
			return nil, shiftOffset(err, int64(start))
		}
		bar, err := decoder.FromRaw(raw, prevClose)
		if err != nil {
			return nil, shiftOffset(err, int64(start))
		}

		if decoder.Plausible(raw) != nil {
			table.Skipped++
			continue
		}

		table.Bars = append(table.Bars, bar)
		prevClose = bar.Close
	}

	return table, nil
}

// shiftOffset turns a block-relative decode offset into a file offset
func shiftOffset(err error, base int64) error {
	var pErr *apperrors.ParseError
	if errors.As(err, &pErr) {
		pErr.Offset += base
		return pErr
	}
	return fmt.Errorf("record at offset %d: %w", base, err)
}

// DetectLayout picks the record layout from a file path. A parent directory
// or file name containing "5m" or "min" (case-insensitive) selects the
// intraday layout; everything else is daily.
func DetectLayout(path string) domain.BarLayout {
	dir := strings.ToLower(filepath.Base(filepath.Dir(path)))
	name := strings.ToLower(filepath.Base(path))
	for _, part := range []string{dir, name} {
		if strings.Contains(part, "5m") || strings.Contains(part, "min") {
			return domain.BarLayoutIntraday
		}
	}
	return domain.BarLayoutDaily
}
