package config

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestPageSize(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	size := settings.GetPageSize()
	if size != DefaultPageSize {
		t.Errorf("Expected default page size %d, got %d", DefaultPageSize, size)
	}

	// Test setting custom value
	settings.SetPageSize(25)
	if settings.GetPageSize() != 25 {
		t.Errorf("Expected page size 25, got %d", settings.GetPageSize())
	}

	// Test boundary values
	settings.SetPageSize(0) // Should be clamped to 1
	if settings.GetPageSize() != 1 {
		t.Error("Page size should be clamped to minimum 1")
	}

	settings.SetPageSize(500) // Should be clamped to MaxPageSize
	if settings.GetPageSize() != MaxPageSize {
		t.Errorf("Page size should be clamped to %d, got %d", MaxPageSize, settings.GetPageSize())
	}
}

func TestLastPhone(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetLastPhone() != "" {
		t.Error("Last phone should default to empty")
	}

	settings.SetLastPhone("13800000000")
	if settings.GetLastPhone() != "13800000000" {
		t.Errorf("Expected last phone 13800000000, got %s", settings.GetLastPhone())
	}
}
