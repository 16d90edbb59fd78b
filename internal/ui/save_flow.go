package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/youzill/bvtc-desktop/internal/logging"
	"github.com/youzill/bvtc-desktop/internal/model"
	"github.com/youzill/bvtc-desktop/internal/upload"
)

// onSaveClick drives the save sequence: prepare (login + playlists), pick a
// playlist, choose the title mode, then submit and poll.
func (ui *RootUI) onSaveClick() {
	if ui.uploading {
		return
	}

	selected := ui.session.Selected()
	flow := upload.NewFlow(ui.client)

	ui.saveBtn.Disable()
	go func() {
		playlists, err := flow.Prepare(context.Background(), selected)
		fyne.Do(func() {
			ui.refreshSelectionControls()

			switch {
			case errors.Is(err, upload.ErrNoSelection):
				ui.showError("Select at least one video first")
			case errors.Is(err, upload.ErrLoginRequired):
				ui.promptRelogin()
			case err != nil:
				ui.showError(fetchErrorText(err))
			default:
				ui.showPlaylistPicker(flow, selected, playlists)
			}
		})
	}()
}

// promptRelogin tells the user the session is gone and offers the login view
func (ui *RootUI) promptRelogin() {
	dialog.ShowConfirm("Login required",
		"Your NetEase Cloud Music session has expired. Log in again?",
		func(ok bool) {
			if ok {
				ui.ShowLogin()
			}
		}, ui.window)
}

// showPlaylistPicker lists the target playlists; the cloud-disk-only entry
// always comes first
func (ui *RootUI) showPlaylistPicker(flow *upload.Flow, selected []string, playlists []model.Playlist) {
	chosen := 0

	list := widget.NewList(
		func() int { return len(playlists) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(playlists[id].PName)
		},
	)
	list.OnSelected = func(id widget.ListItemID) { chosen = id }
	list.Select(0)

	content := container.NewBorder(
		widget.NewLabel("Choose where the songs should go"),
		nil, nil, nil, list)

	picker := dialog.NewCustomConfirm("Target playlist", "Next", "Cancel", content,
		func(ok bool) {
			if !ok {
				return
			}
			ui.showTitleModeChoice(flow, selected, playlists[chosen])
		}, ui.window)
	picker.Resize(fyne.NewSize(PlaylistDialogW, PlaylistDialogH))
	picker.Show()
}

// showTitleModeChoice asks whether to keep the Bilibili titles or customize
// them before upload
func (ui *RootUI) showTitleModeChoice(flow *upload.Flow, selected []string, playlist model.Playlist) {
	keepBtn := widget.NewButton("Keep original titles", nil)
	customBtn := widget.NewButton("Customize titles", nil)
	customBtn.Importance = widget.HighImportance

	choice := dialog.NewCustom("Song titles", "Cancel",
		container.NewVBox(
			widget.NewLabel(fmt.Sprintf("Uploading %d video(s) to %q", len(selected), playlist.PName)),
			keepBtn,
			customBtn,
		), ui.window)

	keepBtn.OnTapped = func() {
		choice.Hide()
		ui.session.SetUseOriginalTitles(true)
		ui.submit(flow, selected, playlist)
	}
	customBtn.OnTapped = func() {
		choice.Hide()
		ui.session.SetUseOriginalTitles(false)
		ui.showTitleEditor(flow, selected, playlist)
	}
	choice.Show()
}

// titleEditRow pairs a selected video with its editable title entry
type titleEditRow struct {
	bvid  string
	entry *widget.Entry
}

// showTitleEditor opens the customize dialog: one editable entry per selected
// video, prefilled from any stored override or the original title, then
// filled in by the streamed AI suggestions as they arrive. Users can type
// over a suggestion at any point; a blank entry falls back to the original
// title at submit time.
func (ui *RootUI) showTitleEditor(flow *upload.Flow, selected []string, playlist model.Playlist) {
	info := ui.session.VideoInfo()
	titles := make(map[string]string, len(selected))
	if info != nil {
		for _, item := range info.VideoList {
			titles[item.Bvid] = item.Title
		}
	}

	rows := make([]*titleEditRow, 0, len(selected))
	byBvid := make(map[string]*titleEditRow, len(selected))
	form := container.NewVBox()

	for _, bvid := range selected {
		entry := widget.NewEntry()
		if override, ok := ui.session.Override(bvid); ok {
			entry.SetText(override)
		} else {
			entry.SetText(titles[bvid])
		}

		row := &titleEditRow{bvid: bvid, entry: entry}
		rows = append(rows, row)
		byBvid[bvid] = row

		regenBtn := ui.newRegenerateButton(row)
		bvidLabel := widget.NewLabel(bvid)
		form.Add(container.NewBorder(nil, nil, bvidLabel, regenBtn, entry))
	}

	statusLabel := widget.NewLabel("Fetching title suggestions...")
	content := container.NewBorder(statusLabel, nil, nil, nil, container.NewVScroll(form))

	streamCtx, cancelStream := context.WithCancel(context.Background())

	editor := dialog.NewCustomConfirm("Customize titles", "Upload", "Cancel", content,
		func(ok bool) {
			cancelStream()
			if !ok {
				return
			}
			for _, row := range rows {
				original := titles[row.bvid]
				if text := strings.TrimSpace(row.entry.Text); text != original {
					ui.session.SetOverride(row.bvid, text)
				} else {
					ui.session.SetOverride(row.bvid, "")
				}
			}
			ui.submit(flow, selected, playlist)
		}, ui.window)
	editor.Resize(fyne.NewSize(TitleEditDlgW, TitleEditDlgH))
	editor.Show()

	ui.runSuggestStream(streamCtx, selected, byBvid, statusLabel)
}

// runSuggestStream consumes the suggestion stream and writes each arriving
// title into the matching entry, skipping entries the user already edited
func (ui *RootUI) runSuggestStream(ctx context.Context, bvids []string, byBvid map[string]*titleEditRow, statusLabel *widget.Label) {
	if ui.suggesting {
		return
	}
	ui.suggesting = true

	edited := make(map[string]bool, len(bvids))
	for bvid, row := range byBvid {
		b := bvid
		row.entry.OnChanged = func(string) { edited[b] = true }
	}

	go func() {
		err := ui.streamer.Stream(ctx, bvids, func(bvid, title string) {
			fyne.Do(func() {
				row, ok := byBvid[bvid]
				if !ok || edited[bvid] {
					return
				}
				row.entry.OnChanged = nil
				row.entry.SetText(title)
				row.entry.OnChanged = func(string) { edited[bvid] = true }
			})
		})
		fyne.Do(func() {
			ui.suggesting = false
			switch {
			case err == nil:
				statusLabel.SetText("Suggestions loaded, edit as needed")
			case errors.Is(err, context.Canceled):
				// Dialog dismissed, nothing to report
			default:
				logging.Logger.Warn("suggestion stream ended early", logging.Err(err))
				statusLabel.SetText("Suggestions unavailable, original titles kept")
			}
		})
	}()
}

// newRegenerateButton requests a fresh suggestion for a single video
func (ui *RootUI) newRegenerateButton(row *titleEditRow) *widget.Button {
	var btn *widget.Button
	btn = widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() {
		btn.Disable()
		go func() {
			err := ui.streamer.Stream(context.Background(), []string{row.bvid}, func(bvid, title string) {
				fyne.Do(func() {
					if bvid == row.bvid {
						row.entry.SetText(title)
					}
				})
			})
			fyne.Do(func() {
				btn.Enable()
				if err != nil {
					logging.Logger.Warn("single suggestion failed",
						logging.String("bvid", row.bvid),
						logging.Err(err))
				}
			})
		}()
	})
	return btn
}

// submit creates the backend task and drives the progress dialog from poll
// snapshots until the task ends
func (ui *RootUI) submit(flow *upload.Flow, selected []string, playlist model.Playlist) {
	req := upload.BuildCreateRequest(selected, playlist,
		ui.session.UseOriginalTitles(), ui.session.Overrides())

	ui.uploading = true
	ui.refreshSelectionControls()

	go func() {
		taskID, err := flow.Submit(context.Background(), req)
		fyne.Do(func() {
			if err != nil {
				ui.uploading = false
				ui.refreshSelectionControls()
				ui.showError("Failed to create the upload task: " + fetchErrorText(err))
				return
			}
			ui.showProgressDialog(taskID)
		})
	}()
}

// showProgressDialog opens the modal progress view and starts the poller.
// The dialog stays up until the poll reaches a terminal state.
func (ui *RootUI) showProgressDialog(taskID string) {
	progressBar := widget.NewProgressBar()
	stateLabel := widget.NewLabel("Waiting for the task to start...")

	content := container.NewVBox(stateLabel, progressBar)
	progress := dialog.NewCustomWithoutButtons("Uploading", content, ui.window)
	progress.Resize(fyne.NewSize(ProgressDlgW, ProgressDlgH))
	progress.Show()

	ui.poller.SetUpdateCallback(func(snap upload.Snapshot) {
		fyne.Do(func() {
			progressBar.SetValue(float64(snap.Progress) / 100)
			stateLabel.SetText(progressText(snap))

			if snap.State.IsTerminal() {
				progress.Hide()
				ui.uploading = false
				ui.refreshSelectionControls()
				ui.showResultDialog(snap)
			}
		})
	})

	if err := ui.poller.Start(taskID); err != nil {
		progress.Hide()
		ui.uploading = false
		ui.refreshSelectionControls()
		ui.showError("Another upload is still being tracked")
	}
}

func progressText(snap upload.Snapshot) string {
	switch snap.State {
	case upload.PollPending:
		return "Waiting for the task to start..."
	case upload.PollProcessing:
		if snap.Task != nil && snap.Task.Total > 0 {
			return fmt.Sprintf("Transferring... "+ProgressLabelFormat, snap.Progress)
		}
		return "Transferring..."
	case upload.PollCompleted:
		return "Done"
	case upload.PollFailed:
		return "Failed"
	default:
		return DashPlaceholder
	}
}

// showResultDialog reports the terminal outcome. It lists every succeeded
// and failed item and requires an explicit dismissal.
func (ui *RootUI) showResultDialog(snap upload.Snapshot) {
	box := container.NewVBox()

	if snap.State == upload.PollFailed && snap.Task == nil {
		box.Add(widget.NewLabel("The upload could not be tracked to completion:"))
		box.Add(widget.NewLabel(snap.Err))
	} else if snap.Task != nil {
		task := snap.Task
		box.Add(widget.NewLabel(fmt.Sprintf("Succeeded: %d / %d", len(task.Success), task.Total)))
		for _, title := range task.Success {
			box.Add(widget.NewLabel("  ✓ " + title))
		}
		if task.HasFailures() {
			box.Add(widget.NewLabel(fmt.Sprintf("Failed: %d", len(task.Failed))))
			for _, item := range task.Failed {
				box.Add(widget.NewLabel(fmt.Sprintf("  ✗ %s: %s", item.Title, item.Error)))
			}
		}
		if snap.Err != "" {
			box.Add(widget.NewLabel(snap.Err))
		}
	}

	title := "Upload finished"
	if snap.State == upload.PollFailed {
		title = "Upload failed"
	}

	result := dialog.NewCustom(title, "Close", container.NewVScroll(box), ui.window)
	result.Resize(fyne.NewSize(ResultDialogW, ResultDialogH))
	result.Show()
}
