package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// AnalyzePath is the analyzer endpoint, relative to the configured API base URL.
	AnalyzePath = "/api/analyze"
	// DefaultAPIURL is used when neither config nor flags name an analyzer.
	DefaultAPIURL = "http://localhost:3000"
	// DefaultRequestTimeout bounds a single outbound analysis call.
	DefaultRequestTimeout = 30 * time.Second
	// LoadingTickInterval is how often the loading message rotates.
	LoadingTickInterval = 4500 * time.Millisecond
	// ErrorBodyLimitBytes caps how much of a failed response body we read.
	ErrorBodyLimitBytes = 64 * 1024
	// HistoryFileName is the JSON-lines log of completed submissions inside results_dir.
	HistoryFileName = "history.jsonl"
)
