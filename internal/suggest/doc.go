package suggest

// Package suggest consumes the backend's SSE title-suggestion stream. Each
// progress event carries one bvid with either a suggested title or a
// per-item error; a terminal done event ends the stream. Dropped
// connections are retried with an explicit, bounded backoff instead of
// relying on open-ended transport reconnects.
