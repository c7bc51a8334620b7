package loop

import "time"

// Config holds the tunables of one Loop, mirroring the teacher's
// monitor.Config (tick interval, thresholds) generalized to this
// pipeline's per-monitor capture/OCR cadence (spec §6).
type Config struct {
	TickInterval            time.Duration
	Languages               []string
	CaptureUnfocusedWindows bool

	// FailureThreshold consecutive Snap failures trigger Cooldown
	// (spec §4.G, §7). Zero uses the default of 10.
	FailureThreshold int
	// Cooldown is slept once FailureThreshold is reached, then the
	// failure counter resets. Zero uses the default of 5s.
	Cooldown time.Duration
	// HeartbeatInterval bounds how long the loop can run without
	// logging, regardless of frame activity. Zero uses the default of
	// 60s (spec §4.G).
	HeartbeatInterval time.Duration
	// PoolWorkers sizes the per-loop blocking-task pool. Zero uses the
	// default of 4.
	PoolWorkers int
}

// DefaultConfig returns the spec-mandated defaults (spec §4.G, §6).
func DefaultConfig() Config {
	return Config{
		TickInterval:      time.Second,
		FailureThreshold:  10,
		Cooldown:          5 * time.Second,
		HeartbeatInterval: 60 * time.Second,
		PoolWorkers:       4,
	}
}

func (c Config) tickInterval() time.Duration {
	if c.TickInterval <= 0 {
		return time.Second
	}
	return c.TickInterval
}

func (c Config) failureThreshold() int {
	if c.FailureThreshold <= 0 {
		return 10
	}
	return c.FailureThreshold
}

func (c Config) cooldown() time.Duration {
	if c.Cooldown <= 0 {
		return 5 * time.Second
	}
	return c.Cooldown
}

func (c Config) heartbeatInterval() time.Duration {
	if c.HeartbeatInterval <= 0 {
		return 60 * time.Second
	}
	return c.HeartbeatInterval
}

func (c Config) poolWorkers() int {
	if c.PoolWorkers <= 0 {
		return 4
	}
	return c.PoolWorkers
}
