package notify

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"
)

// DesktopNotifier shows OS-level desktop notifications.
type DesktopNotifier struct {
	title string
}

// NewDesktopNotifier creates a desktop notifier.
func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{title: "Cursor Usage Alert"}
}

func (d *DesktopNotifier) Name() string { return "desktop" }

func (d *DesktopNotifier) Send(_ context.Context, alert Alert) error {
	if err := beeep.Notify(d.title, alert.Message, ""); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}
