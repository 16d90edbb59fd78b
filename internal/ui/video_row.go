package ui

import (
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/youzill/bvtc-desktop/internal/model"
)

// VideoRow is a compact row widget for one video: selection checkbox,
// title, and the bvid as a link to the source page
type VideoRow struct {
	widget.BaseWidget

	check      *widget.Check
	titleLabel *widget.Label
	bvidLink   *widget.Hyperlink

	onToggle func(bvid string, checked bool)
	bvid     string
}

// NewVideoRow creates an empty row; Bind fills it with a concrete video.
// The widget.List create/update split reuses rows across scrolling.
func NewVideoRow(onToggle func(bvid string, checked bool)) *VideoRow {
	vr := &VideoRow{onToggle: onToggle}
	vr.ExtendBaseWidget(vr)

	vr.check = widget.NewCheck("", func(checked bool) {
		if vr.onToggle != nil && vr.bvid != "" {
			vr.onToggle(vr.bvid, checked)
		}
	})
	vr.titleLabel = widget.NewLabel("")
	vr.titleLabel.Truncation = fyne.TextTruncateEllipsis
	vr.bvidLink = widget.NewHyperlink("", nil)

	return vr
}

// Bind points the row at a video and its current selection state
func (vr *VideoRow) Bind(item model.VideoItem, selected bool) {
	vr.bvid = item.Bvid
	vr.titleLabel.SetText(item.Title)

	vr.bvidLink.SetText(item.Bvid)
	if parsed, err := url.Parse(item.URL); err == nil {
		vr.bvidLink.SetURL(parsed)
	} else {
		vr.bvidLink.SetURL(nil)
	}

	// SetChecked would fire the callback; assign and refresh instead
	vr.check.Checked = selected
	vr.check.Refresh()
}

// CreateRenderer implements fyne.Widget
func (vr *VideoRow) CreateRenderer() fyne.WidgetRenderer {
	content := container.NewBorder(nil, nil, vr.check, vr.bvidLink, vr.titleLabel)
	return widget.NewSimpleRenderer(content)
}

// MinSize keeps rows readable inside the list
func (vr *VideoRow) MinSize() fyne.Size {
	min := vr.BaseWidget.MinSize()
	if min.Width < RowMinWidth {
		min.Width = RowMinWidth
	}
	if min.Height < RowMinHeight {
		min.Height = RowMinHeight
	}
	return min
}
