package platform

import (
	"fmt"
	"strconv"
	"strings"
)

// IDKind distinguishes the two identifier schemes Bilibili uses
type IDKind string

const (
	// KindBvid is the public base58-style "BV..." identifier
	KindBvid IDKind = "bvid"
	// KindAvid is the legacy numeric "av..." identifier
	KindAvid IDKind = "avid"
)

// VideoID is a normalized, validated video identifier
type VideoID struct {
	Kind  IDKind
	Value string
}

// ParseVideoID validates a user-typed video ID. Accepted forms are
// "BV<alnum>" (case-insensitive prefix, value kept verbatim) and
// "av<digits>" (value normalized to the bare number). Anything else is
// rejected so no request is ever issued for garbage input.
func ParseVideoID(raw string) (VideoID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return VideoID{}, fmt.Errorf("video ID is empty")
	}

	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasPrefix(lower, "av"):
		digits := lower[len("av"):]
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil || n <= 0 {
			return VideoID{}, fmt.Errorf("invalid av number: %s", raw)
		}
		return VideoID{Kind: KindAvid, Value: strconv.FormatInt(n, 10)}, nil
	case strings.HasPrefix(lower, "bv"):
		body := trimmed[len("bv"):]
		if body == "" || !isAlnum(body) {
			return VideoID{}, fmt.Errorf("invalid bvid: %s", raw)
		}
		return VideoID{Kind: KindBvid, Value: trimmed}, nil
	default:
		return VideoID{}, fmt.Errorf("not a bvid or av number: %s", raw)
	}
}

// Query returns the query parameter key/value for the video-list endpoint
func (id VideoID) Query() (key, value string) {
	return string(id.Kind), id.Value
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
