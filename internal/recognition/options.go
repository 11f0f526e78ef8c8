package recognition

import (
	"time"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/constants"
)

// Options holds the recognition calibration and timing.
type Options struct {
	DisplayThreshold  int
	MarkThreshold     int
	MaxDistance       float64
	Cooldown          time.Duration
	NoticeDuration    time.Duration // how long a "marked" notice stays before reverting to idle
	StartTimeout      time.Duration // how long StartRecognition waits for the source to become ready
	ReadyPollInterval time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the empirical calibration.
func DefaultOptions() Options {
	return Options{
		DisplayThreshold:  constants.DisplayThreshold,
		MarkThreshold:     constants.MarkThreshold,
		MaxDistance:       constants.MaxDistance,
		Cooldown:          constants.MarkCooldown,
		NoticeDuration:    constants.MarkNoticeDuration,
		StartTimeout:      constants.DefaultStartTimeout,
		ReadyPollInterval: constants.ReadyPollInterval,
		Now:               time.Now,
	}
}

// OptionsFromConfig builds options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	opts.DisplayThreshold = cfg.Calibration.DisplayThreshold
	opts.MarkThreshold = cfg.Calibration.MarkThreshold
	opts.MaxDistance = cfg.Calibration.MaxDistance
	opts.Cooldown = cfg.Calibration.Cooldown()
	opts.NoticeDuration = cfg.Calibration.Notice()
	if cfg.App.StartTimeout > 0 {
		opts.StartTimeout = cfg.App.StartTimeout
	}
	return opts
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxDistance <= 0 {
		o.MaxDistance = d.MaxDistance
	}
	if o.Cooldown <= 0 {
		o.Cooldown = d.Cooldown
	}
	if o.NoticeDuration <= 0 {
		o.NoticeDuration = d.NoticeDuration
	}
	if o.StartTimeout <= 0 {
		o.StartTimeout = d.StartTimeout
	}
	if o.ReadyPollInterval <= 0 {
		o.ReadyPollInterval = d.ReadyPollInterval
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o
}
