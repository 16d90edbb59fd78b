package session

import (
	"strings"
	"sync"

	"github.com/youzill/bvtc-desktop/internal/model"
)

// Session holds all mutable UI state for one search: the fetched collection,
// which videos are selected, the filter/pagination window over the
// collection, and the title-override choices. Mutations arrive from the UI
// goroutine and from the suggestion stream, so everything is mutex-guarded.
type Session struct {
	mu sync.RWMutex

	info     *model.VideoInfo
	selected map[string]struct{}

	page     int
	pageSize int
	filter   string

	useOriginalTitles bool
	overrides         map[string]string
}

// New creates an empty session with the given collection page size
func New(pageSize int) *Session {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Session{
		selected:          make(map[string]struct{}),
		page:              1,
		pageSize:          pageSize,
		useOriginalTitles: true,
		overrides:         make(map[string]string),
	}
}

// SetVideoInfo installs a new search result. Selection, pagination, filter
// and title overrides are all reset together; callers observe the swap as
// one atomic step.
func (s *Session) SetVideoInfo(info *model.VideoInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.info = info
	s.selected = make(map[string]struct{})
	s.page = 1
	s.filter = ""
	s.useOriginalTitles = true
	s.overrides = make(map[string]string)
}

// VideoInfo returns the current search result, nil before the first search
func (s *Session) VideoInfo() *model.VideoInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// Toggle marks a single video selected or not. Toggling is idempotent per
// item; unknown bvids are ignored so the selection stays a subset of the
// current video list.
func (s *Session) Toggle(bvid string, checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.knownBvid(bvid) {
		return
	}
	if checked {
		s.selected[bvid] = struct{}{}
	} else {
		delete(s.selected, bvid)
		delete(s.overrides, bvid)
	}
}

// SelectAll selects every video of the list (primary included) when checked,
// and clears the selection when unchecked
func (s *Session) SelectAll(checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !checked {
		s.selected = make(map[string]struct{})
		s.overrides = make(map[string]string)
		return
	}
	if s.info == nil {
		return
	}
	for _, bvid := range s.info.Bvids() {
		s.selected[bvid] = struct{}{}
	}
}

// IsSelected reports whether a video is currently selected
func (s *Session) IsSelected(bvid string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[bvid]
	return ok
}

// Selected returns the selected bvids in video-list order
func (s *Session) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.info == nil {
		return nil
	}
	ordered := make([]string, 0, len(s.selected))
	for _, bvid := range s.info.Bvids() {
		if _, ok := s.selected[bvid]; ok {
			ordered = append(ordered, bvid)
		}
	}
	return ordered
}

// SelectedCount returns how many videos are selected
func (s *Session) SelectedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected)
}

// AllSelected reports whether every video of the list is selected
func (s *Session) AllSelected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.info == nil || len(s.info.VideoList) == 0 {
		return false
	}
	return len(s.selected) == len(s.info.VideoList)
}

// SetFilter narrows the displayed collection by a case-insensitive substring
// match on title or bvid. Changing the filter jumps back to page one.
func (s *Session) SetFilter(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = strings.TrimSpace(text)
	s.page = 1
}

// Filter returns the current filter text
func (s *Session) Filter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Filtered returns the collection videos (non-primary) matching the filter
func (s *Session) Filtered() []model.VideoItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filteredLocked()
}

func (s *Session) filteredLocked() []model.VideoItem {
	collection := s.info.Collection()
	if s.filter == "" {
		return collection
	}
	needle := strings.ToLower(s.filter)
	matched := make([]model.VideoItem, 0, len(collection))
	for _, item := range collection {
		if strings.Contains(strings.ToLower(item.Title), needle) ||
			strings.Contains(strings.ToLower(item.Bvid), needle) {
			matched = append(matched, item)
		}
	}
	return matched
}

// Page returns the current 1-based page number
func (s *Session) Page() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// SetPage moves the pagination window; out-of-range pages are clamped
func (s *Session) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page < 1 {
		page = 1
	}
	if max := s.pageCountLocked(); page > max {
		page = max
	}
	s.page = page
}

// PageCount returns how many pages the filtered collection spans, at least 1
func (s *Session) PageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pageCountLocked()
}

func (s *Session) pageCountLocked() int {
	total := len(s.filteredLocked())
	if total == 0 {
		return 1
	}
	return (total + s.pageSize - 1) / s.pageSize
}

// PageItems returns the filtered collection slice for the current page
func (s *Session) PageItems() []model.VideoItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := s.filteredLocked()
	start := (s.page - 1) * s.pageSize
	if start >= len(filtered) {
		return nil
	}
	end := start + s.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// SetUseOriginalTitles chooses between keeping Bilibili titles and the
// customize flow
func (s *Session) SetUseOriginalTitles(useOriginal bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.useOriginalTitles = useOriginal
}

// UseOriginalTitles reports the current title mode
func (s *Session) UseOriginalTitles() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.useOriginalTitles
}

// SetOverride records a replacement title for a selected video. Overrides
// for unselected videos are dropped, keeping override keys a subset of the
// selection. Empty titles remove the override so the original title applies.
func (s *Session) SetOverride(bvid, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selected[bvid]; !ok {
		return
	}
	title = strings.TrimSpace(title)
	if title == "" {
		delete(s.overrides, bvid)
		return
	}
	s.overrides[bvid] = title
}

// Override returns the recorded replacement title for a video, if any
func (s *Session) Override(bvid string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	title, ok := s.overrides[bvid]
	return title, ok
}

// Overrides returns a copy of the override map
func (s *Session) Overrides() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make(map[string]string, len(s.overrides))
	for bvid, title := range s.overrides {
		copied[bvid] = title
	}
	return copied
}

func (s *Session) knownBvid(bvid string) bool {
	if s.info == nil {
		return false
	}
	for _, item := range s.info.VideoList {
		if item.Bvid == bvid {
			return true
		}
	}
	return false
}
