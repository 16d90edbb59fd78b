package model

import "strings"

// Collection title prefix added by Bilibili, stripped for display
const CollectionTitlePrefix = "合集·"

// VideoItem is a single video inside a fetched collection
type VideoItem struct {
	Bvid  string `json:"bvid"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// VideoInfo is the result of a collection lookup. The first entry of
// VideoList is the video that was searched for; entries from index 1 onward
// form the collection it belongs to. Immutable once fetched; a new search
// replaces it wholesale.
type VideoInfo struct {
	Author    string      `json:"author"`
	ListTitle string      `json:"list_title"`
	VideoList []VideoItem `json:"video_list"`
}

// Primary returns the searched-for video, or nil for an empty result
func (v *VideoInfo) Primary() *VideoItem {
	if v == nil || len(v.VideoList) == 0 {
		return nil
	}
	return &v.VideoList[0]
}

// Collection returns the non-primary videos (may be empty)
func (v *VideoInfo) Collection() []VideoItem {
	if v == nil || len(v.VideoList) < 2 {
		return nil
	}
	return v.VideoList[1:]
}

// Bvids returns the bvid of every video in list order, primary included
func (v *VideoInfo) Bvids() []string {
	if v == nil {
		return nil
	}
	ids := make([]string, 0, len(v.VideoList))
	for _, item := range v.VideoList {
		ids = append(ids, item.Bvid)
	}
	return ids
}

// DisplayListTitle returns the collection title without Bilibili's prefix
func (v *VideoInfo) DisplayListTitle() string {
	if v == nil {
		return ""
	}
	return strings.TrimPrefix(v.ListTitle, CollectionTitlePrefix)
}
