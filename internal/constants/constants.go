package constants

import "time"

const (
	DefaultCheckInterval = 15 * time.Minute
	// FloorInterval is the minimum pause between cycles even when a cycle
	// overruns the configured interval.
	FloorInterval   = 1 * time.Minute
	CycleRetryDelay = 1 * time.Minute

	DefaultBatchSize = 5
)

const (
	FetchTimeout    = 45 * time.Second
	BrowserTimeout  = 60 * time.Second
	DatabaseTimeout = 5 * time.Second
	ExportTimeout   = 30 * time.Second

	FetchRetries    = 3
	FetchRetryDelay = 3 * time.Second
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)
