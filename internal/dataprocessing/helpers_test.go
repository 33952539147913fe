package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"qmtcli/internal/shared/testutil"
)

const baseTimestamp = testutil.BaseTimestamp

var (
	dayRecord  = testutil.DayRecord
	twoDayFile = testutil.TwoDayFile
	writeFile  = testutil.WriteDAT
)

func newTestParser(t *testing.T, opts Options) (*Parser, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, logs := testutil.NewTestLogger(t)
	parser, err := NewParser(opts, nil, logger, nil)
	require.NoError(t, err)
	return parser, logs
}
