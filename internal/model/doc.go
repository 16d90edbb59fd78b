package model

// Package model defines domain data structures shared across the app: video
// collections fetched from the backend, NetEase playlists, upload tasks, and
// status enums. Structures map 1:1 onto the backend wire format and are
// designed for direct binding in the UI.
