package config

import (
	"fyne.io/fyne/v2"
)

// Settings keys for Fyne preferences
const (
	KeyPageSize  = "collection_page_size"
	KeyLastPhone = "last_login_phone"
)

// Default values
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Settings manages per-user preferences persisted by Fyne
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetPageSize returns how many collection videos are shown per page
func (s *Settings) GetPageSize() int {
	value := s.app.Preferences().Int(KeyPageSize)
	if value <= 0 {
		s.SetPageSize(DefaultPageSize)
		return DefaultPageSize
	}
	return value
}

// SetPageSize sets the collection page size
func (s *Settings) SetPageSize(size int) {
	if size < 1 {
		size = 1
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	s.app.Preferences().SetInt(KeyPageSize, size)
}

// GetLastPhone returns the phone number used for the previous login, for
// prefilling the login form
func (s *Settings) GetLastPhone() string {
	return s.app.Preferences().String(KeyLastPhone)
}

// SetLastPhone remembers the phone number of a successful login
func (s *Settings) SetLastPhone(phone string) {
	s.app.Preferences().SetString(KeyLastPhone, phone)
}
