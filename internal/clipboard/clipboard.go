package clipboard

import (
	"fmt"

	"fyne.io/fyne/v2"
)

// Manager defines the interface for clipboard operations.
type Manager interface {
	CopyLink(url string) error
}

// FyneManager implements Manager using Fyne's clipboard.
type FyneManager struct {
	clipboard fyne.Clipboard
}

// NewFyneManager creates a new FyneManager.
func NewFyneManager(clipboard fyne.Clipboard) *FyneManager {
	return &FyneManager{clipboard: clipboard}
}

// CopyLink places the share URL on the system clipboard so staff can
// paste it without scanning the QR code.
func (m *FyneManager) CopyLink(url string) error {
	if m.clipboard == nil {
		return fmt.Errorf("clipboard is not available")
	}
	if url == "" {
		return fmt.Errorf("nothing to copy: share URL is empty")
	}
	m.clipboard.SetContent(url)
	return nil
}
