// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides DAT file fixtures and a capturing slog
// handler for tests:
//
//	logger, logs := testutil.NewTestLogger(t)
//	path := testutil.WriteDAT(t, dir, "000001.DAT", testutil.TwoDayFile())
//	...
//	testutil.AssertLogContains(t, logs, slog.LevelWarn, "Failed to parse file")
package shared
