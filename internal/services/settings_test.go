package services

import "testing"

func TestGetSettingReturnsDefault(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewSettingsService(repo)

	value, err := svc.GetSetting("sync_interval", "60")
	if err != nil {
		t.Fatalf("missing key must not error: %v", err)
	}
	if value != "60" {
		t.Errorf("expected default value, got %q", value)
	}
}

func TestSetSettingOverwrites(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewSettingsService(repo)

	if err := svc.SetSetting("theme", "dark"); err != nil {
		t.Fatalf("failed to set setting: %v", err)
	}
	if err := svc.SetSetting("theme", "light"); err != nil {
		t.Fatalf("failed to overwrite setting: %v", err)
	}

	value, err := svc.GetSetting("theme", "system")
	if err != nil {
		t.Fatalf("failed to get setting: %v", err)
	}
	if value != "light" {
		t.Errorf("expected light, got %q", value)
	}
}
