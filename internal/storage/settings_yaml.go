package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fortio.org/safecast"
	"gopkg.in/yaml.v3"

	"studyclock/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	StudyMinutes  int      `yaml:"study_minutes"`
	BreakMinutes  int      `yaml:"break_minutes"`
	SprintMinutes int      `yaml:"sprint_minutes"`
	SoundEnabled  *bool    `yaml:"sound_enabled,omitempty"`
	Volume        *float64 `yaml:"volume,omitempty"`
	PlanFile      string   `yaml:"plan_file,omitempty"`
	RestoreState  *bool    `yaml:"restore_state,omitempty"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads preferences from an explicit path.
func LoadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings.Clamped(), nil
}

// SettingsPath resolves the settings file inside the per-user config directory.
func SettingsPath(appName string) (string, error) {
	return ConfigPath(appName, settingsFileName)
}

// SaveSettingsFile writes preferences to an explicit path.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData, err := toYamlSettings(settings)
	if err != nil {
		return err
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// ConfigPath resolves fileName inside the per-user config directory.
func ConfigPath(appName, fileName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, fileName), nil
}

func toYamlSettings(settings preferences.Settings) (yamlSettings, error) {
	study, err := safecast.Conv[int](int64(settings.Study / time.Minute))
	if err != nil {
		return yamlSettings{}, fmt.Errorf("convert study minutes: %w", err)
	}
	rest, err := safecast.Conv[int](int64(settings.Break / time.Minute))
	if err != nil {
		return yamlSettings{}, fmt.Errorf("convert break minutes: %w", err)
	}
	sprint, err := safecast.Conv[int](int64(settings.Sprint / time.Minute))
	if err != nil {
		return yamlSettings{}, fmt.Errorf("convert sprint minutes: %w", err)
	}

	sound := settings.SoundEnabled
	volume := settings.Volume
	restore := settings.RestoreState
	return yamlSettings{
		StudyMinutes:  study,
		BreakMinutes:  rest,
		SprintMinutes: sprint,
		SoundEnabled:  &sound,
		Volume:        &volume,
		PlanFile:      settings.PlanFile,
		RestoreState:  &restore,
	}, nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.StudyMinutes > 0 {
		settings.Study = time.Duration(fileData.StudyMinutes) * time.Minute
	}
	if fileData.BreakMinutes > 0 {
		settings.Break = time.Duration(fileData.BreakMinutes) * time.Minute
	}
	if fileData.SprintMinutes > 0 {
		settings.Sprint = time.Duration(fileData.SprintMinutes) * time.Minute
	}
	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}
	if fileData.Volume != nil {
		settings.Volume = *fileData.Volume
	}
	if fileData.RestoreState != nil {
		settings.RestoreState = *fileData.RestoreState
	}
	settings.PlanFile = fileData.PlanFile
}
