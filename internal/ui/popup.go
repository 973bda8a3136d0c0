package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Akaiko1/photobooth-qr/internal/preview"
	"github.com/Akaiko1/photobooth-qr/internal/qr"
	"github.com/Akaiko1/photobooth-qr/internal/watcher"
)

const (
	popupTitle   = "Photobooth - Scan to Download"
	photoBoxSize = 420
	qrPixelSize  = 320

	// Filenames longer than this are truncated on the popup.
	maxNameLen = 35

	// Concurrent popups are shifted by offsetStep px each, cycling
	// after offsetCycle windows, so a burst never stacks exactly.
	offsetStep  = 30
	offsetCycle = 5
)

// Palette shared by the popup card.
var (
	colorBackground = color.NRGBA{R: 0x0d, G: 0x11, B: 0x17, A: 0xff}
	colorHeader     = color.NRGBA{R: 0x58, G: 0xa6, B: 0xff, A: 0xff}
	colorText       = color.NRGBA{R: 0xf0, G: 0xf6, B: 0xfc, A: 0xff}
	colorMuted      = color.NRGBA{R: 0x8b, G: 0x94, B: 0x9e, A: 0xff}
)

// popup is one transient photo+QR window. All fields are owned by the
// GUI thread after construction.
type popup struct {
	id        string
	window    fyne.Window
	logger    zerolog.Logger
	countdown *widget.Label
	remaining int
	cancel    context.CancelFunc
	onClosed  func()
	closed    bool
}

// offsetFor returns the pixel offset for a popup opened while openCount
// others are already on screen.
func offsetFor(openCount int) int {
	return (openCount % offsetCycle) * offsetStep
}

// truncateName shortens long camera filenames for display.
func truncateName(name string) string {
	if len(name) <= maxNameLen {
		return name
	}
	return name[:maxNameLen-3] + "..."
}

func countdownText(remaining int) string {
	return fmt.Sprintf("⏱ Closing in %ds  •  Click anywhere or press ESC to close", remaining)
}

// showPopup creates and displays the popup for one photo event.
// Must be called on the GUI thread.
func (a *PhotoboothApp) showPopup(ev watcher.PhotoEvent) {
	id := uuid.NewString()[:8]
	logger := a.logger.With().Str("popup", id).Logger()

	payload := qr.FolderURL(a.settings.DriveFolderID)

	photoImg, err := preview.Load(ev.Path, photoBoxSize, photoBoxSize)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load photo preview, using placeholder")
		photoImg = preview.Placeholder(photoBoxSize, photoBoxSize)
	}

	// A QR failure downgrades the popup, it never suppresses it.
	qrImg, err := qr.Generate(payload, qrPixelSize)
	if err != nil {
		logger.Error().Err(err).Msg("failed to generate QR code, popup shown without it")
		qrImg = nil
	}

	p := &popup{
		id:        id,
		window:    newPopupWindow(a.app),
		logger:    logger,
		remaining: a.settings.DisplaySecs,
	}
	p.countdown = widget.NewLabel(countdownText(p.remaining))
	p.countdown.Alignment = fyne.TextAlignCenter

	offset := offsetFor(a.openPopups)
	p.window.SetContent(p.buildContent(photoImg, qrImg, filepath.Base(ev.Path), offset))
	p.window.Resize(fyne.NewSize(
		float32(a.settings.WindowWidth+offset),
		float32(a.settings.WindowHeight+offset),
	))

	p.window.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		if key.Name == fyne.KeyEscape {
			p.close()
		}
	})
	p.window.SetCloseIntercept(p.close)

	a.openPopups++
	a.photosShown++
	a.refreshStatus()

	p.onClosed = func() {
		a.openPopups--
		a.refreshStatus()
	}

	p.window.Show()
	p.startCountdown()

	logger.Info().
		Str("file", filepath.Base(ev.Path)).
		Str("url", payload).
		Int("offset", offset).
		Msg("popup displayed")
}

// newPopupWindow returns an undecorated window where the driver
// supports one, a plain window otherwise (tests, mobile).
func newPopupWindow(a fyne.App) fyne.Window {
	if drv, ok := a.Driver().(desktop.Driver); ok {
		return drv.CreateSplashWindow()
	}
	return a.NewWindow(popupTitle)
}

// buildContent lays out the popup card: photo preview left, QR right,
// countdown footer. A nil qrImg leaves the right side with a fallback
// notice.
func (p *popup) buildContent(photoImg, qrImg image.Image, filename string, offset int) fyne.CanvasObject {
	header := canvas.NewText("📸 Scan to Download", colorHeader)
	header.TextSize = 32
	header.TextStyle.Bold = true
	header.Alignment = fyne.TextAlignCenter

	subtitle := canvas.NewText("Your photo is ready! Scan the QR code with your phone.", colorMuted)
	subtitle.TextSize = 12
	subtitle.Alignment = fyne.TextAlignCenter

	photo := canvas.NewImageFromImage(photoImg)
	photo.FillMode = canvas.ImageFillContain
	photo.SetMinSize(fyne.NewSize(photoBoxSize, photoBoxSize))

	name := canvas.NewText("📄 "+truncateName(filename), colorMuted)
	name.TextSize = 10
	name.Alignment = fyne.TextAlignCenter

	left := container.NewVBox(photo, name)

	var right fyne.CanvasObject
	if qrImg != nil {
		qrCanvas := canvas.NewImageFromImage(qrImg)
		qrCanvas.FillMode = canvas.ImageFillContain
		qrCanvas.SetMinSize(fyne.NewSize(qrPixelSize, qrPixelSize))

		// White backing keeps the code scannable on the dark card.
		qrBox := container.NewStack(canvas.NewRectangle(color.White), container.NewPadded(qrCanvas))

		instruction := canvas.NewText("📱 Point your camera at the QR code", colorText)
		instruction.TextSize = 13
		instruction.Alignment = fyne.TextAlignCenter

		hint := canvas.NewText("Opens in Google Drive for easy download", colorMuted)
		hint.TextSize = 11
		hint.Alignment = fyne.TextAlignCenter

		right = container.NewVBox(layout.NewSpacer(), qrBox, instruction, hint, layout.NewSpacer())
	} else {
		notice := canvas.NewText("QR code unavailable — ask staff for the download link", colorText)
		notice.TextSize = 13
		notice.Alignment = fyne.TextAlignCenter
		right = container.NewVBox(layout.NewSpacer(), notice, layout.NewSpacer())
	}

	body := container.NewHBox(layout.NewSpacer(), left, layout.NewSpacer(), right, layout.NewSpacer())

	card := container.NewVBox(header, subtitle, body, widget.NewSeparator(), p.countdown)

	background := canvas.NewRectangle(colorBackground)
	root := container.NewStack(background, container.NewPadded(card), newTapCatcher(p.close))

	// Shift the whole card so overlapping popups stay distinguishable;
	// Fyne offers no window positioning, so the shift lives inside the
	// canvas.
	return container.New(
		layout.NewCustomPaddedLayout(float32(offset), 0, float32(offset), 0),
		root,
	)
}

// startCountdown ticks once per second on a background goroutine and
// dispatches label updates to the GUI thread.
func (p *popup) startCountdown() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// UI updates must use main thread dispatcher
				fyne.Do(p.tick)
			}
		}
	}()
}

// tick runs on the GUI thread once per second until close.
func (p *popup) tick() {
	if p.closed {
		return
	}
	p.remaining--
	if p.remaining <= 0 {
		p.close()
		return
	}
	p.countdown.SetText(countdownText(p.remaining))
}

// close dismisses this popup only. Idempotent; always on the GUI thread
// (tap, key and tick handlers all run there).
func (p *popup) close() {
	if p.closed {
		return
	}
	p.closed = true
	p.cancel()
	p.window.Close()
	if p.onClosed != nil {
		p.onClosed()
	}
	p.logger.Debug().Msg("popup closed")
}

// tapCatcher is a transparent widget stacked over the popup card so a
// click anywhere dismisses it.
type tapCatcher struct {
	widget.BaseWidget
	onTapped func()
}

func newTapCatcher(onTapped func()) *tapCatcher {
	t := &tapCatcher{onTapped: onTapped}
	t.ExtendBaseWidget(t)
	return t
}

// Tapped implements fyne.Tappable.
func (t *tapCatcher) Tapped(*fyne.PointEvent) {
	if t.onTapped != nil {
		t.onTapped()
	}
}

// CreateRenderer implements fyne.Widget.
func (t *tapCatcher) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(color.Transparent)
	return widget.NewSimpleRenderer(rect)
}
