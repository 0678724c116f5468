package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"powcost/internal/kv"
	"powcost/internal/models"
)

// GetSettings returns the stored settings, or the defaults when none are
// stored or the stored value cannot be decoded.
func (s *Store) GetSettings() models.AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readSettings()
}

func (s *Store) readSettings() models.AppSettings {
	data, err := s.medium.Get(KeySettings)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			s.log.Errorw("failed to read settings", "error", err)
		}
		return models.DefaultSettings()
	}
	settings := models.DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		s.log.Errorw("failed to decode settings", "error", err)
		return models.DefaultSettings()
	}
	return settings
}

// SaveSettings overwrites the settings record.
func (s *Store) SaveSettings(settings models.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeSettings(settings)
}

func (s *Store) writeSettings(settings models.AppSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := s.medium.Set(KeySettings, data); err != nil {
		s.log.Errorw("failed to save settings", "error", err)
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// UpdateSettings merges patch into the current settings and stores the result.
func (s *Store) UpdateSettings(patch models.SettingsPatch) (models.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.readSettings()
	patch.Apply(&settings)
	if err := s.writeSettings(settings); err != nil {
		return models.AppSettings{}, err
	}
	return settings, nil
}
