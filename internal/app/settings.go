package app

import (
	"github.com/ayusman/fingercount/internal/fingers"
	"github.com/ayusman/fingercount/internal/store"
)

// LoadCounterConfig reads the persisted counter settings, falling back to def
// for any value that has never been saved.
func LoadCounterConfig(s *store.Store, def fingers.Config) (fingers.Config, error) {
	settings := s.Settings()

	radius, err := settings.GetFloat(store.SettingClusterRadius, def.ClusterRadius)
	if err != nil {
		return def, err
	}
	angle, err := settings.GetFloat(store.SettingAngleThreshold, def.AngleThresholdDegrees)
	if err != nil {
		return def, err
	}

	cfg := fingers.Config{ClusterRadius: radius, AngleThresholdDegrees: angle}
	if err := cfg.Validate(); err != nil {
		return def, err
	}
	return cfg, nil
}

// SaveCounterConfig persists cfg.
func SaveCounterConfig(s *store.Store, cfg fingers.Config) error {
	return s.Settings().SetFloats(map[string]float64{
		store.SettingClusterRadius:  cfg.ClusterRadius,
		store.SettingAngleThreshold: cfg.AngleThresholdDegrees,
	})
}
