package ui

// Package ui builds the Fyne views: the phone/captcha login screen, the
// main search-and-select screen, and the modal save flow (playlist picker,
// title customization with streamed AI suggestions, upload progress and
// final report). All backend work runs on background goroutines; results
// are marshalled back with fyne.Do.
