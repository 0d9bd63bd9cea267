package prefetch

import "time"

// Config controls the background prefetch scheduler. It is replaced
// wholesale via Scheduler.UpdateConfig; fields are never mutated in place.
type Config struct {
	// Enabled gates all prefetch activity.
	Enabled bool `yaml:"enabled"`
	// MaxConcurrentRequests sizes the permit pool shared by all activities.
	MaxConcurrentRequests int `yaml:"max_concurrent_requests"`
	// WifiOnly denies prefetching on cellular connections.
	WifiOnly bool `yaml:"wifi_only"`
	// RespectSaveData denies prefetching when the network reports save-data.
	RespectSaveData bool `yaml:"respect_save_data"`
	// PopularityThreshold is the minimum trailing-year install count for a
	// package to count as popular.
	PopularityThreshold uint64 `yaml:"popularity_threshold"`
	// BackgroundRefreshEnabled gates the stale-listing refresh activity.
	BackgroundRefreshEnabled bool `yaml:"background_refresh_enabled"`
	// PredictiveEnabled gates query-driven predictive prefetching.
	PredictiveEnabled bool `yaml:"predictive_enabled"`
	// Interval is the base period for the stale-refresh loop.
	Interval time.Duration `yaml:"interval"`
}

// DefaultConfig returns the standard scheduler configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:                  true,
		MaxConcurrentRequests:    3,
		WifiOnly:                 false,
		RespectSaveData:          true,
		PopularityThreshold:      1000,
		BackgroundRefreshEnabled: true,
		PredictiveEnabled:        true,
		Interval:                 5 * time.Minute,
	}
}

// NetworkConditions is the host's last-reported network state. The
// scheduler only reads it; a nil snapshot (never reported) skips the
// network checks entirely.
type NetworkConditions struct {
	// ConnectionType is the link class, e.g. "wifi", "ethernet", "cellular".
	ConnectionType string `json:"connection_type"`
	// EffectiveType is the measured speed class: "slow-2g", "2g", "3g", "4g".
	EffectiveType string `json:"effective_type"`
	// Downlink is the estimated bandwidth in Mbps.
	Downlink float64 `json:"downlink"`
	// RTT is the estimated round-trip time in milliseconds.
	RTT uint32 `json:"rtt"`
	// SaveData reports the user's reduced-data preference.
	SaveData bool `json:"save_data"`
}

// Priority ranks a prefetch request. Slow networks admit only high
// priority work.
type Priority string

// Prefetch priorities.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)
