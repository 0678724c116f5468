package services

import (
	"strings"
	"time"

	"powcost/internal/exchange"
	"powcost/internal/models"
	"powcost/internal/store"

	apperrors "powcost/internal/errors"
)

// settingsService handles application settings.
type settingsService struct {
	store *store.Store
	now   func() time.Time
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(s *store.Store) SettingsServicer {
	return &settingsService{store: s, now: time.Now}
}

// GetSettings returns the stored settings, or the defaults.
func (s *settingsService) GetSettings() models.AppSettings {
	return s.store.GetSettings()
}

// UpdateSettings merges patch into the stored settings.
func (s *settingsService) UpdateSettings(patch models.SettingsPatch) (models.AppSettings, error) {
	for _, v := range []*float64{patch.DefaultOCMPercent, patch.DefaultProfitPercent, patch.DefaultTaxPercent} {
		if v != nil && *v < 0 {
			return models.AppSettings{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "default percentages must not be negative")
		}
	}
	if patch.RemoteURL != nil {
		trimmed := strings.TrimRight(strings.TrimSpace(*patch.RemoteURL), "/")
		patch.RemoteURL = &trimmed
	}

	settings, err := s.store.UpdateSettings(patch)
	if err != nil {
		return models.AppSettings{}, storeError(err)
	}
	return settings, nil
}

// ResetSettings replaces the stored settings with the defaults, clearing the
// remote-store credentials.
func (s *settingsService) ResetSettings() (models.AppSettings, error) {
	defaults := models.DefaultSettings()
	if err := s.store.SaveSettings(defaults); err != nil {
		return models.AppSettings{}, storeError(err)
	}
	return defaults, nil
}

// ExportSettings renders the current settings as a downloadable JSON file.
func (s *settingsService) ExportSettings() ([]byte, string, error) {
	data, err := exchange.EncodeSettings(s.store.GetSettings())
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return data, exchange.SettingsExportName(s.now()), nil
}

// ImportSettings merges the keys of an exported settings file into the
// current settings.
func (s *settingsService) ImportSettings(data []byte) (models.AppSettings, error) {
	patch, err := exchange.DecodeSettings(data)
	if err != nil {
		return models.AppSettings{}, apperrors.Wrap(apperrors.ErrInvalidImportFile, err)
	}
	return s.UpdateSettings(patch)
}
