package model

// CloudOnlyName labels the synthetic playlist entry that uploads to the
// cloud disk without touching any playlist
const CloudOnlyName = "不加入歌单，仅添加到云盘"

// Playlist is a NetEase Cloud Music playlist owned by the logged-in user
type Playlist struct {
	Pid   int64  `json:"pid"`
	PName string `json:"pname"`
}

// CloudOnly returns the synthetic cloud-disk-only entry shown at the top of
// the playlist picker
func CloudOnly() Playlist {
	return Playlist{PName: CloudOnlyName}
}

// IsCloudOnly reports whether the playlist is the synthetic cloud-disk entry
func (p Playlist) IsCloudOnly() bool {
	return p.Pid == 0
}
