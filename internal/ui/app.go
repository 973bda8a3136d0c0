package ui

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/Akaiko1/photobooth-qr/internal/clipboard"
	"github.com/Akaiko1/photobooth-qr/internal/config"
	"github.com/Akaiko1/photobooth-qr/internal/qr"
	"github.com/Akaiko1/photobooth-qr/internal/watcher"
)

const (
	// UI Constants
	appTitle     = "Photobooth QR"
	statusWidth  = 420
	statusHeight = 200

	// Messages
	msgWaiting    = "🟢 Waiting for new photos..."
	msgSetup      = "⚙️ Waiting for configuration..."
	msgCopyOK     = "Share link copied to clipboard!"
	msgWatchError = "Watcher Error"
)

// PhotoboothApp wires the folder watcher to popup windows and keeps the
// GUI event loop alive through a small status window.
type PhotoboothApp struct {
	// Core components
	app        fyne.App
	window     fyne.Window
	settings   *config.Settings
	configPath string
	logger     zerolog.Logger

	// Services
	clipboard clipboard.Manager

	// UI components
	statusLabel *widget.Label
	countLabel  *widget.Label

	// State - UI thread only, no synchronization needed
	openPopups  int
	photosShown int

	// Watcher lifecycle
	watch       *watcher.Watcher
	cancelWatch context.CancelFunc
}

// NewPhotoboothApp creates the application around the given settings.
// Settings may fail validation; Run then opens the setup form first.
func NewPhotoboothApp(settings *config.Settings, configPath string, logger zerolog.Logger) *PhotoboothApp {
	if settings == nil {
		settings = config.Default()
	}
	if configPath == "" {
		configPath = config.DefaultFileName
	}

	fyneApp := app.New()
	fyneApp.SetIcon(theme.MediaPhotoIcon())

	window := fyneApp.NewWindow(appTitle)
	window.Resize(fyne.NewSize(statusWidth, statusHeight))
	window.SetMaster()

	return &PhotoboothApp{
		app:         fyneApp,
		window:      window,
		settings:    settings,
		configPath:  configPath,
		logger:      logger,
		clipboard:   clipboard.NewFyneManager(fyneApp.Clipboard()),
		statusLabel: widget.NewLabel(msgSetup),
		countLabel:  widget.NewLabel(""),
	}
}

// Run starts the application and blocks until the status window closes.
func (a *PhotoboothApp) Run() {
	a.window.SetContent(a.createStatusContent())

	if err := a.settings.Validate(); err != nil {
		a.logger.Warn().Err(err).Msg("configuration incomplete, opening setup form")
		a.showSettingsForm(a.applySettings)
	} else {
		a.startWatching()
	}

	a.window.ShowAndRun()
	a.stopWatching()
}

// createStatusContent builds the status window layout.
func (a *PhotoboothApp) createStatusContent() fyne.CanvasObject {
	title := widget.NewLabel("📸 Photobooth QR Automation")
	title.TextStyle.Bold = true

	settingsBtn := widget.NewButtonWithIcon("Settings", theme.SettingsIcon(), a.handleOpenSettings)
	copyBtn := widget.NewButtonWithIcon("Copy Link", theme.ContentCopyIcon(), a.handleCopyLink)
	quitBtn := widget.NewButtonWithIcon("Quit", theme.LogoutIcon(), a.app.Quit)

	buttons := container.NewGridWithColumns(3, settingsBtn, copyBtn, quitBtn)

	a.refreshStatus()
	return container.NewVBox(title, a.statusLabel, a.countLabel, buttons)
}

// refreshStatus updates the status window labels. UI thread only.
func (a *PhotoboothApp) refreshStatus() {
	a.countLabel.SetText(fmt.Sprintf("Photos shown: %d  •  Popups open: %d", a.photosShown, a.openPopups))
}

// applySettings swaps in a freshly saved settings record and
// (re)starts the watcher on the possibly new folder.
func (a *PhotoboothApp) applySettings(settings *config.Settings) {
	a.stopWatching()
	a.settings = settings
	a.startWatching()
}

// startWatching creates the folder watcher and runs it on a background
// goroutine. Events trampoline back to the GUI thread before any window
// is touched.
func (a *PhotoboothApp) startWatching() {
	handler := func(ev watcher.PhotoEvent) {
		// UI updates must use main thread dispatcher
		fyne.Do(func() {
			a.showPopup(ev)
		})
	}

	w, err := watcher.New(a.settings.WatchFolder, handler, a.logger)
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to start watcher")
		a.showError(msgWatchError, err)
		a.statusLabel.SetText("🔴 Not watching — fix settings and try again")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.watch = w
	a.cancelWatch = cancel

	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error().Err(err).Msg("watcher stopped unexpectedly")
		}
	}()

	a.statusLabel.SetText(msgWaiting + "\nFolder: " + a.settings.WatchFolder)
	a.logger.Info().Str("folder", a.settings.WatchFolder).Msg("watcher started")
}

// stopWatching cancels the running watcher, if any.
func (a *PhotoboothApp) stopWatching() {
	if a.cancelWatch != nil {
		a.cancelWatch()
		a.cancelWatch = nil
	}
	if a.watch != nil {
		a.watch.Close()
		a.watch = nil
	}
}

// handleOpenSettings reopens the settings form for an explicit
// reconfiguration.
func (a *PhotoboothApp) handleOpenSettings() {
	a.showSettingsForm(a.applySettings)
}

// handleCopyLink copies the shared folder URL to the clipboard.
func (a *PhotoboothApp) handleCopyLink() {
	url := qr.FolderURL(a.settings.DriveFolderID)
	if err := a.clipboard.CopyLink(url); err != nil {
		a.showError("Clipboard Error", err)
		return
	}
	dialog.ShowInformation("Success", msgCopyOK, a.window)
}

// showError shows an error dialog on the status window.
func (a *PhotoboothApp) showError(title string, err error) {
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), a.window)
}
