package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/youzill/bvtc-desktop/internal/api"
	"github.com/youzill/bvtc-desktop/internal/config"
	"github.com/youzill/bvtc-desktop/internal/logging"
	"github.com/youzill/bvtc-desktop/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.youzill.bvtc-desktop"
	AppName = "BVTC Desktop"

	WindowWidth  = 900
	WindowHeight = 640
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		return
	}

	logging.Init(cfg.Log.Path, cfg.Log.Level)
	defer logging.Sync()
	logging.Logger.Info("starting",
		logging.String("version", version),
		logging.String("api_base_url", cfg.API.BaseURL))

	// Create new Fyne app
	myApp := app.NewWithID(AppID)

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)

	// Create and setup UI
	rootUI := ui.NewRootUI(myWindow, myApp, client, cfg)
	rootUI.Start()

	// Show and run
	myWindow.ShowAndRun()
}
