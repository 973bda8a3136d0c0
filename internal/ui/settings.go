package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/Akaiko1/photobooth-qr/internal/config"
)

const (
	settingsTitle  = "Photobooth Settings"
	settingsWidth  = 700
	settingsHeight = 500

	driveIDHelp = "From your shared folder URL: https://drive.google.com/drive/folders/YOUR_FOLDER_ID.\n" +
		"Make sure the folder is shared with 'Anyone with the link'."
)

// showSettingsForm opens the settings window pre-filled from current
// settings. onSave runs after a validated record has been persisted.
func (a *PhotoboothApp) showSettingsForm(onSave func(*config.Settings)) {
	win := a.app.NewWindow(settingsTitle)
	win.Resize(fyne.NewSize(settingsWidth, settingsHeight))

	folderEntry := widget.NewEntry()
	folderEntry.SetText(a.settings.WatchFolder)
	folderEntry.SetPlaceHolder("Folder where the camera saves photos")

	browseBtn := widget.NewButton("Browse...", func() {
		folderDialog := dialog.NewFolderOpen(func(folder fyne.ListableURI, err error) {
			if err != nil {
				dialog.ShowError(fmt.Errorf("folder selection: %w", err), win)
				return
			}
			if folder == nil {
				return // User cancelled
			}
			folderEntry.SetText(folder.Path())
		}, win)
		folderDialog.Show()
	})

	driveIDEntry := widget.NewEntry()
	driveIDEntry.SetText(a.settings.DriveFolderID)
	driveIDEntry.SetPlaceHolder("Google Drive shared folder ID")

	displayEntry := widget.NewEntry()
	displayEntry.SetText(strconv.Itoa(a.settings.DisplaySecs))

	widthEntry := widget.NewEntry()
	widthEntry.SetText(strconv.Itoa(a.settings.WindowWidth))

	heightEntry := widget.NewEntry()
	heightEntry.SetText(strconv.Itoa(a.settings.WindowHeight))

	form := widget.NewForm(
		widget.NewFormItem("📁 Watch folder", container.NewBorder(nil, nil, nil, browseBtn, folderEntry)),
		widget.NewFormItem("☁️ Drive folder ID", driveIDEntry),
		widget.NewFormItem("⏱ Auto-close (seconds)", displayEntry),
		widget.NewFormItem("Window width", widthEntry),
		widget.NewFormItem("Window height", heightEntry),
	)
	form.SubmitText = "💾 Save Settings"
	form.OnSubmit = func() {
		next, err := settingsFromForm(
			folderEntry.Text,
			driveIDEntry.Text,
			displayEntry.Text,
			widthEntry.Text,
			heightEntry.Text,
		)
		if err != nil {
			dialog.ShowError(err, win)
			return
		}

		if err := config.Save(a.configPath, next); err != nil {
			a.logger.Error().Err(err).Msg("failed to save settings")
			dialog.ShowError(err, win)
			return
		}

		a.logger.Info().Str("folder", next.WatchFolder).Msg("settings saved")
		win.Close()
		onSave(next)
	}

	help := widget.NewLabel(driveIDHelp)
	help.Wrapping = fyne.TextWrapWord

	title := widget.NewLabel("⚙️ Photobooth Settings")
	title.TextStyle.Bold = true

	win.SetContent(container.NewVBox(title, form, help))
	win.Show()
}

// settingsFromForm parses and validates raw form input into a Settings
// record.
func settingsFromForm(folder, driveID, display, width, height string) (*config.Settings, error) {
	displaySecs, err := parsePositiveInt("auto-close time", display)
	if err != nil {
		return nil, err
	}
	w, err := parsePositiveInt("window width", width)
	if err != nil {
		return nil, err
	}
	h, err := parsePositiveInt("window height", height)
	if err != nil {
		return nil, err
	}

	s := &config.Settings{
		WatchFolder:   folder,
		DriveFolderID: driveID,
		DisplaySecs:   displaySecs,
		WindowWidth:   w,
		WindowHeight:  h,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func parsePositiveInt(field, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", field, raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", field, n)
	}
	return n, nil
}
