package upload

// Package upload implements the client side of the backend's upload
// pipeline: the ordered save flow (selection check, login check, playlist
// fetch, task creation) and the polling state machine that follows a
// created task to its terminal state.
