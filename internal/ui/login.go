package ui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/youzill/bvtc-desktop/internal/logging"
)

// buildLoginView renders the NetEase phone + captcha login form. Sending a
// captcha starts a resend cooldown so the button cannot be hammered.
func (ui *RootUI) buildLoginView() fyne.CanvasObject {
	phoneEntry := widget.NewEntry()
	phoneEntry.SetPlaceHolder("Phone number")
	phoneEntry.SetText(ui.settings.GetLastPhone())

	captchaEntry := widget.NewEntry()
	captchaEntry.SetPlaceHolder("Captcha")

	statusLabel := widget.NewLabel("")
	statusLabel.Wrapping = fyne.TextWrapWord

	var sendBtn *widget.Button
	sendBtn = widget.NewButton("Send captcha", func() {
		phone := phoneEntry.Text
		if len(phone) != PhoneLength {
			statusLabel.SetText("Please enter an 11-digit phone number")
			return
		}

		sendBtn.Disable()
		go func() {
			err := ui.client.SendCaptcha(context.Background(), phone)
			fyne.Do(func() {
				if err != nil {
					statusLabel.SetText("Failed to send captcha: " + fetchErrorText(err))
					sendBtn.Enable()
					return
				}
				statusLabel.SetText("Captcha sent")
				ui.startResendCountdown(sendBtn)
			})
		}()
	})

	loginBtn := widget.NewButton("Log in", func() {
		phone, captcha := phoneEntry.Text, captchaEntry.Text
		if len(phone) != PhoneLength || len(captcha) < CaptchaLength {
			statusLabel.SetText("Please fill in the phone number and captcha")
			return
		}

		go func() {
			err := ui.client.VerifyCaptcha(context.Background(), phone, captcha)
			fyne.Do(func() {
				if err != nil {
					logging.Logger.Warn("login failed", logging.Err(err))
					statusLabel.SetText("Login failed: " + fetchErrorText(err))
					return
				}
				ui.settings.SetLastPhone(phone)
				ui.ShowMain()
			})
		}()
	})
	loginBtn.Importance = widget.HighImportance

	form := container.NewVBox(
		widget.NewLabelWithStyle("Log in to NetEase Cloud Music", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		phoneEntry,
		container.NewBorder(nil, nil, nil, sendBtn, captchaEntry),
		loginBtn,
		statusLabel,
	)

	return container.NewCenter(container.NewPadded(form))
}

// startResendCountdown disables the send button and counts it down before
// re-enabling. Runs its timer off the UI thread.
func (ui *RootUI) startResendCountdown(sendBtn *widget.Button) {
	go func() {
		remaining := int(CaptchaResendCooldown / time.Second)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for remaining > 0 {
			r := remaining
			fyne.Do(func() {
				sendBtn.SetText(fmt.Sprintf("Resend (%ds)", r))
			})
			<-ticker.C
			remaining--
		}

		fyne.Do(func() {
			sendBtn.SetText("Send captcha")
			sendBtn.Enable()
		})
	}()
}
