package reminder

import "time"

// Config controls the reminder worker loop.
type Config struct {
	PollInterval time.Duration
	// Cooldown is the minimum gap between reminders to the same resident.
	Cooldown time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval: 1 * time.Hour,
		Cooldown:     24 * time.Hour,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = defaults.PollInterval
	}
	if c.Cooldown <= 0 {
		c.Cooldown = defaults.Cooldown
	}
	return c
}
