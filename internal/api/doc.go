package api

// Package api wraps the BVTC backend HTTP API. One Client carries the base
// URL, timeout and session cookies for every endpoint; responses use the
// backend's {code, msg, data} envelope with code 200 as the success
// sentinel. Transport and application failures are folded into a small
// error taxonomy the UI can branch on.
