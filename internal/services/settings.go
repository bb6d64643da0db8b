package services

import (
	"database/sql"
	"errors"

	"github.com/ummeeayz/edusafe-app/internal/apperrors"
	"github.com/ummeeayz/edusafe-app/internal/db"
	"github.com/ummeeayz/edusafe-app/internal/models"
)

// SettingsService reads and writes application settings stored as
// key/value string pairs.
type SettingsService struct {
	repo *db.Repository
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(repo *db.Repository) *SettingsService {
	return &SettingsService{repo: repo}
}

// GetSetting returns the value for key, or def when the key is absent.
func (s *SettingsService) GetSetting(key, def string) (string, error) {
	value, err := s.repo.GetSetting(key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return def, nil
		}
		return "", apperrors.Wrap(apperrors.ErrDatabase, "failed to read setting", err)
	}
	return value, nil
}

// SetSetting stores the value for key, creating or replacing it.
func (s *SettingsService) SetSetting(key, value string) error {
	if err := s.repo.SetSetting(key, value); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "failed to write setting", err)
	}
	return nil
}

// GetAllSettings returns every stored setting.
func (s *SettingsService) GetAllSettings() ([]*models.Setting, error) {
	settings, err := s.repo.ListSettings()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "failed to list settings", err)
	}
	return settings, nil
}
