package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Text fragments
const (
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
	PageLabelFormat     = "Page %d / %d"
	SaveButtonFormat    = "Save to NetEase playlist (%d selected)"
)

// Layout sizing
const (
	RowMinWidth     float32 = 400
	RowMinHeight    float32 = 44
	AvatarSize      float32 = 32
	ProgressDlgW    float32 = 420
	ProgressDlgH    float32 = 180
	TitleEditDlgW   float32 = 560
	TitleEditDlgH   float32 = 420
	ResultDialogW   float32 = 480
	ResultDialogH   float32 = 360
	PlaylistDialogW float32 = 400
	PlaylistDialogH float32 = 380
)

// Login form behavior
const (
	CaptchaResendCooldown = 60 * time.Second
	CaptchaLength         = 4
	PhoneLength           = 11
)
