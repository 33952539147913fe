package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the converter
	Version = "1.0.0"

	// VersionPrerelease is the pre-release identifier
	VersionPrerelease = ""

	// RecordFormatVersion identifies the 64-byte DAT record layout the decoder reads
	RecordFormatVersion = "qmt-v1"

	// CSVFormatVersion identifies the output column set
	CSVFormatVersion = "v1"
)

var (
	// BuildTime is set during build using ldflags
	BuildTime = "unknown"

	// GitCommit is set during build using ldflags
	GitCommit = "unknown"
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	RecordFormat string `json:"record_format"`
	CSVFormat    string `json:"csv_format"`
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		RecordFormat: RecordFormatVersion,
		CSVFormat:    CSVFormatVersion,
	}
}

// GetVersionString returns a formatted version string
func GetVersionString() string {
	if VersionPrerelease != "" {
		return fmt.Sprintf("datparser v%s-%s", Version, VersionPrerelease)
	}
	return fmt.Sprintf("datparser v%s", Version)
}

// GetFullVersionString returns a detailed version string
func GetFullVersionString() string {
	info := GetVersionInfo()
	return fmt.Sprintf(
		"%s (records: %s, built: %s, commit: %s, go: %s, os: %s/%s)",
		GetVersionString(),
		info.RecordFormat,
		info.BuildTime,
		info.GitCommit,
		info.GoVersion,
		info.OS,
		info.Architecture,
	)
}
