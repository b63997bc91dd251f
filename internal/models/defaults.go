package models

// Version is the daemon version string.
const Version = "26.1.0"

// DefaultVolume is the volume applied to the active tile when no saved
// volume exists.
const DefaultVolume = 85

// ClampVolume limits a volume percentage to [0, 100].
func ClampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// DefaultSettings returns the settings used on first run or when the
// config file is missing or corrupt.
func DefaultSettings() Settings {
	return Settings{
		AudioPolicy:             PolicySingle,
		VolumeDefault:           DefaultVolume,
		YTMode:                  "direct_when_possible",
		PrivacyEmbedOnlyYouTube: false,
		PauseOthersInFullscreen: true,
		LayoutMode:              LayoutAuto,
	}
}

// DefaultConfig returns the initial persisted document.
func DefaultConfig() BoardConfig {
	return BoardConfig{
		Settings: DefaultSettings(),
		Volume:   DefaultVolume,
	}
}
