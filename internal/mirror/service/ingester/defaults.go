package ingester

import "time"

const (
	progressLogInterval uint64 = 100
	defaultRoundSize    uint64 = 1000

	defaultPollInterval = 10 * time.Second
	retrySleepDuration  = 5 * time.Second
)
