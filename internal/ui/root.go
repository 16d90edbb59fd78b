package ui

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/youzill/bvtc-desktop/internal/api"
	"github.com/youzill/bvtc-desktop/internal/config"
	"github.com/youzill/bvtc-desktop/internal/logging"
	"github.com/youzill/bvtc-desktop/internal/platform"
	"github.com/youzill/bvtc-desktop/internal/session"
	"github.com/youzill/bvtc-desktop/internal/suggest"
	"github.com/youzill/bvtc-desktop/internal/upload"
)

// RootUI owns the window and switches between the login view and the main
// search/upload view
type RootUI struct {
	window   fyne.Window
	app      fyne.App
	client   *api.Client
	cfg      *config.Config
	settings *config.Settings
	session  *session.Session

	poller   *upload.Poller
	streamer *suggest.Streamer

	// Busy flags gate the trigger controls; all accessed on the UI thread
	loading    bool
	uploading  bool
	suggesting bool

	// Main view widgets
	searchEntry    *widget.Entry
	searchBtn      *widget.Button
	authorLabel    *widget.Label
	listTitleLabel *widget.Label
	primaryRow     *VideoRow
	primaryBox     *fyne.Container
	selectAllCheck *widget.Check
	filterEntry    *widget.Entry
	collectionList *widget.List
	pageLabel      *widget.Label
	prevPageBtn    *widget.Button
	nextPageBtn    *widget.Button
	saveBtn        *widget.Button
	avatarImage    *canvas.Image
}

// NewRootUI wires the views together. Call Start afterwards to pick the
// initial view based on the backend-reported login state.
func NewRootUI(window fyne.Window, app fyne.App, client *api.Client, cfg *config.Config) *RootUI {
	settings := config.NewSettings(app)

	ui := &RootUI{
		window:   window,
		app:      app,
		client:   client,
		cfg:      cfg,
		settings: settings,
		session:  session.New(settings.GetPageSize()),
	}

	ui.poller = upload.NewPoller(client, cfg.Upload.PollInterval)
	ui.streamer = suggest.NewStreamer(client.SuggestStreamURL, client.HTTPClient(), cfg.Suggest.MaxReconnect)

	// Navigation away must never leave a poll timer behind
	window.SetOnClosed(func() {
		ui.poller.Stop()
	})

	return ui
}

// Start checks the session and shows the matching view
func (ui *RootUI) Start() {
	go func() {
		loggedIn, err := ui.client.CheckLogin(context.Background())
		fyne.Do(func() {
			if err != nil || !loggedIn {
				ui.ShowLogin()
				return
			}
			ui.ShowMain()
		})
	}()
}

// ShowLogin swaps in the login view
func (ui *RootUI) ShowLogin() {
	ui.window.SetContent(ui.buildLoginView())
}

// ShowMain swaps in the search/upload view
func (ui *RootUI) ShowMain() {
	ui.window.SetContent(ui.buildMainView())
	ui.loadAvatar()
}

func (ui *RootUI) buildMainView() fyne.CanvasObject {
	ui.searchEntry = widget.NewEntry()
	ui.searchEntry.SetPlaceHolder("Enter a Bilibili video ID (BV... or av...)")
	ui.searchEntry.OnSubmitted = func(string) { ui.onSearchClick() }
	ui.searchBtn = widget.NewButtonWithIcon("Search", theme.SearchIcon(), ui.onSearchClick)

	ui.avatarImage = canvas.NewImageFromResource(theme.AccountIcon())
	ui.avatarImage.SetMinSize(fyne.NewSize(AvatarSize, AvatarSize))
	ui.avatarImage.FillMode = canvas.ImageFillContain
	logoutBtn := widget.NewButton("Logout", ui.onLogoutClick)
	logoutBtn.Importance = widget.LowImportance

	topPanel := container.NewBorder(nil, nil, ui.avatarImage,
		container.NewHBox(ui.searchBtn, logoutBtn), ui.searchEntry)

	// Result header
	ui.authorLabel = widget.NewLabel("")
	ui.listTitleLabel = widget.NewLabel("")
	ui.listTitleLabel.TextStyle = fyne.TextStyle{Bold: true}

	// Primary video
	ui.primaryRow = NewVideoRow(ui.onVideoToggle)
	ui.primaryBox = container.NewVBox(widget.NewLabel("Current video"), ui.primaryRow)
	ui.primaryBox.Hide()

	// Collection controls
	ui.selectAllCheck = widget.NewCheck("Select all", ui.onSelectAll)
	ui.filterEntry = widget.NewEntry()
	ui.filterEntry.SetPlaceHolder("Filter by title or bvid")
	ui.filterEntry.OnChanged = ui.onFilterChanged

	ui.collectionList = widget.NewList(
		func() int { return len(ui.session.PageItems()) },
		func() fyne.CanvasObject { return NewVideoRow(ui.onVideoToggle) },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			items := ui.session.PageItems()
			if id >= len(items) {
				return
			}
			row := obj.(*VideoRow)
			row.Bind(items[id], ui.session.IsSelected(items[id].Bvid))
		},
	)

	// Pagination
	ui.pageLabel = widget.NewLabel(fmt.Sprintf(PageLabelFormat, 1, 1))
	ui.prevPageBtn = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() { ui.changePage(-1) })
	ui.nextPageBtn = widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() { ui.changePage(1) })
	pagination := container.NewHBox(ui.prevPageBtn, ui.pageLabel, ui.nextPageBtn)

	ui.saveBtn = widget.NewButtonWithIcon(fmt.Sprintf(SaveButtonFormat, 0), theme.UploadIcon(), ui.onSaveClick)
	ui.saveBtn.Importance = widget.HighImportance
	ui.saveBtn.Disable()

	collectionHeader := container.NewBorder(nil, nil, ui.selectAllCheck, pagination, ui.filterEntry)
	center := container.NewBorder(
		container.NewVBox(ui.authorLabel, ui.primaryBox, ui.listTitleLabel, collectionHeader),
		ui.saveBtn,
		nil, nil,
		ui.collectionList,
	)

	return container.NewBorder(topPanel, nil, nil, nil, center)
}

// onSearchClick validates the typed ID and fetches the collection
func (ui *RootUI) onSearchClick() {
	if ui.loading {
		return
	}

	id, err := platform.ParseVideoID(ui.searchEntry.Text)
	if err != nil {
		ui.showError("Please enter a valid bvid or av number")
		return
	}

	ui.loading = true
	ui.searchBtn.Disable()

	go func() {
		info, err := ui.client.GetVideoList(context.Background(), id)
		fyne.Do(func() {
			ui.loading = false
			ui.searchBtn.Enable()

			if err != nil {
				ui.showError(fetchErrorText(err))
				return
			}

			ui.session.SetVideoInfo(info)
			ui.refreshResult()
		})
	}()
}

func (ui *RootUI) refreshResult() {
	info := ui.session.VideoInfo()
	if info == nil || info.Primary() == nil {
		ui.primaryBox.Hide()
		ui.authorLabel.SetText("")
		ui.listTitleLabel.SetText("")
		ui.collectionList.Refresh()
		ui.refreshSelectionControls()
		return
	}

	ui.authorLabel.SetText("Uploader: " + info.Author)
	primary := info.Primary()
	ui.primaryRow.Bind(*primary, ui.session.IsSelected(primary.Bvid))
	ui.primaryBox.Show()

	if len(info.Collection()) > 0 {
		ui.listTitleLabel.SetText("Collection: " + info.DisplayListTitle())
	} else {
		ui.listTitleLabel.SetText("")
	}

	ui.filterEntry.SetText("")
	ui.collectionList.Refresh()
	ui.refreshPagination()
	ui.refreshSelectionControls()
}

func (ui *RootUI) onVideoToggle(bvid string, checked bool) {
	ui.session.Toggle(bvid, checked)
	ui.refreshSelectionControls()
}

func (ui *RootUI) onSelectAll(checked bool) {
	ui.session.SelectAll(checked)
	ui.collectionList.Refresh()
	info := ui.session.VideoInfo()
	if p := info.Primary(); p != nil {
		ui.primaryRow.Bind(*p, ui.session.IsSelected(p.Bvid))
	}
	ui.refreshSelectionControls()
}

func (ui *RootUI) onFilterChanged(text string) {
	ui.session.SetFilter(text)
	ui.collectionList.Refresh()
	ui.refreshPagination()
}

func (ui *RootUI) changePage(delta int) {
	ui.session.SetPage(ui.session.Page() + delta)
	ui.collectionList.Refresh()
	ui.refreshPagination()
}

func (ui *RootUI) refreshPagination() {
	page, pages := ui.session.Page(), ui.session.PageCount()
	ui.pageLabel.SetText(fmt.Sprintf(PageLabelFormat, page, pages))
	if page <= 1 {
		ui.prevPageBtn.Disable()
	} else {
		ui.prevPageBtn.Enable()
	}
	if page >= pages {
		ui.nextPageBtn.Disable()
	} else {
		ui.nextPageBtn.Enable()
	}
}

func (ui *RootUI) refreshSelectionControls() {
	count := ui.session.SelectedCount()
	ui.saveBtn.SetText(fmt.Sprintf(SaveButtonFormat, count))
	if count == 0 || ui.uploading {
		ui.saveBtn.Disable()
	} else {
		ui.saveBtn.Enable()
	}

	ui.selectAllCheck.Checked = ui.session.AllSelected()
	ui.selectAllCheck.Refresh()
}

// loadAvatar fetches the user avatar and swaps it into the top bar
func (ui *RootUI) loadAvatar() {
	go func() {
		raw, err := ui.client.UserAvatar(context.Background())
		if err != nil {
			logging.Logger.Warn("avatar fetch failed", logging.Err(err))
			return
		}
		resource := fyne.NewStaticResource("avatar.jpg", raw)
		fyne.Do(func() {
			ui.avatarImage.Resource = resource
			ui.avatarImage.Refresh()
		})
	}()
}

func (ui *RootUI) onLogoutClick() {
	dialog.ShowConfirm("Logout", "Log out of NetEase Cloud Music?", func(ok bool) {
		if !ok {
			return
		}
		go func() {
			if err := ui.client.Logout(context.Background()); err != nil {
				logging.Logger.Warn("logout failed", logging.Err(err))
			}
			fyne.Do(ui.ShowLogin)
		}()
	}, ui.window)
}

func (ui *RootUI) showError(msg string) {
	dialog.ShowError(errors.New(msg), ui.window)
}

// fetchErrorText maps an error to the message shown to the user
func fetchErrorText(err error) string {
	switch {
	case errors.Is(err, api.ErrTimeout):
		return "Request timed out, please check your connection"
	case errors.Is(err, api.ErrNetwork):
		return "Network request failed, please check your connection"
	default:
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			if apiErr.Code == 400 {
				return "Please enter a valid bvid or av number"
			}
			return apiErr.Message("Failed to fetch video info")
		}
		return "Failed to fetch video info"
	}
}
