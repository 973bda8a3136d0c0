package watcher

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastStability keeps tests quick while exercising the same code path.
var fastStability = stabilityParams{
	Checks:   2,
	Interval: 10 * time.Millisecond,
	MaxWait:  2 * time.Second,
}

func startWatcher(t *testing.T, dir string) chan PhotoEvent {
	t.Helper()

	events := make(chan PhotoEvent, 16)
	w, err := New(dir, func(ev PhotoEvent) { events <- ev }, zerolog.Nop())
	require.NoError(t, err)
	w.stability = fastStability

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		w.Close()
	})
	go w.Run(ctx)

	// Give the event loop a moment to come up before files appear.
	time.Sleep(50 * time.Millisecond)
	return events
}

func writePhoto(t *testing.T, dir, name string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	switch filepath.Ext(name) {
	case ".png":
		require.NoError(t, png.Encode(f, img))
	default:
		require.NoError(t, jpeg.Encode(f, img, nil))
	}
	return path
}

func collect(t *testing.T, events chan PhotoEvent, n int) []PhotoEvent {
	t.Helper()

	var got []PhotoEvent
	deadline := time.After(5 * time.Second)
	for len(got) < n {
		select {
		case ev := <-events:
			got = append(got, ev)
		case <-deadline:
			t.Fatalf("timed out waiting for events, got %d of %d", len(got), n)
		}
	}
	return got
}

func assertNoEvent(t *testing.T, events chan PhotoEvent) {
	t.Helper()

	select {
	case ev := <-events:
		t.Fatalf("unexpected event for %s", ev.Path)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestAccepts(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.jpeg", true},
		{"photo.png", true},
		{"PHOTO.JPG", true},
		{"photo.Png", true},
		{"notes.txt", false},
		{"clip.mp4", false},
		{"archive.jpg.zip", false},
		{"noextension", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, accepts(tt.path), tt.path)
	}
}

func TestNewCreatesWatchFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outputs")

	w, err := New(dir, func(PhotoEvent) {}, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewRejectsBadArguments(t *testing.T) {
	_, err := New("", func(PhotoEvent) {}, zerolog.Nop())
	assert.Error(t, err)

	_, err = New(t.TempDir(), nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestWatcherDeliversOneEventPerPhoto(t *testing.T) {
	dir := t.TempDir()
	events := startWatcher(t, dir)

	path := writePhoto(t, dir, "shot_001.jpg")

	got := collect(t, events, 1)
	assert.Equal(t, path, got[0].Path)
	assert.False(t, got[0].DetectedAt.IsZero())

	assertNoEvent(t, events)
}

func TestWatcherIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	events := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))

	assertNoEvent(t, events)
}

func TestWatcherSkipsCorruptImage(t *testing.T) {
	dir := t.TempDir()
	events := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("not a jpeg"), 0o644))

	assertNoEvent(t, events)
}

func TestWatcherHandlesBurst(t *testing.T) {
	dir := t.TempDir()
	events := startWatcher(t, dir)

	want := make(map[string]bool)
	for i := 0; i < 3; i++ {
		want[writePhoto(t, dir, fmt.Sprintf("shot_%03d.png", i))] = true
	}

	got := collect(t, events, 3)
	for _, ev := range got {
		assert.True(t, want[ev.Path], "unexpected path %s", ev.Path)
		delete(want, ev.Path)
	}
	assert.Empty(t, want)
}

func TestWaitForStableGivesUp(t *testing.T) {
	params := stabilityParams{
		Checks:   2,
		Interval: 10 * time.Millisecond,
		MaxWait:  100 * time.Millisecond,
	}
	assert.False(t, waitForStable(filepath.Join(t.TempDir(), "never.jpg"), params))
}

func TestWaitForStableSucceeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "done.jpg")
	require.NoError(t, os.WriteFile(path, []byte("finished contents"), 0o644))

	assert.True(t, waitForStable(path, fastStability))
}
