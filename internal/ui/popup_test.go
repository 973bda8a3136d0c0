package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/Akaiko1/photobooth-qr/internal/preview"
)

// newTestPopup builds a popup against the headless test driver. The
// countdown goroutine is not started; tests drive tick directly so
// timing stays deterministic.
func newTestPopup(a fyne.App, displaySecs int, onClosed func()) *popup {
	p := &popup{
		id:        "test",
		window:    newPopupWindow(a),
		logger:    zerolog.Nop(),
		remaining: displaySecs,
		cancel:    func() {},
		onClosed:  onClosed,
	}
	p.countdown = widget.NewLabel(countdownText(p.remaining))
	p.window.SetContent(p.buildContent(preview.Placeholder(8, 8), nil, "shot_001.jpg", 0))
	return p
}

func TestPopupClosesWhenCountdownReachesZero(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	closedCount := 0
	p := newTestPopup(a, 3, func() { closedCount++ })

	// Ticks before the last one only update the label.
	p.tick()
	assert.False(t, p.closed)
	assert.Equal(t, 2, p.remaining)
	assert.Equal(t, countdownText(2), p.countdown.Text)

	p.tick()
	assert.False(t, p.closed)
	assert.Equal(t, 0, closedCount)

	// The display_seconds-th tick dismisses the popup.
	p.tick()
	assert.True(t, p.closed)
	assert.Equal(t, 1, closedCount)
}

func TestPopupCloseIsIdempotent(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	closedCount := 0
	p := newTestPopup(a, 30, func() { closedCount++ })

	p.close()
	p.close()
	p.tick() // a straggling tick after close must not fire onClosed again

	assert.True(t, p.closed)
	assert.Equal(t, 1, closedCount)
	assert.Equal(t, 30, p.remaining, "ticks after close must not keep counting")
}

func TestPopupDismissalLeavesSiblingsOpen(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	firstClosed := 0
	secondClosed := 0
	first := newTestPopup(a, 30, func() { firstClosed++ })
	second := newTestPopup(a, 30, func() { secondClosed++ })

	first.close()

	assert.True(t, first.closed)
	assert.Equal(t, 1, firstClosed)
	assert.False(t, second.closed)
	assert.Equal(t, 0, secondClosed)
	assert.Equal(t, 30, second.remaining)
}
