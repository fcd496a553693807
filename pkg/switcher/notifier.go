package switcher

import (
	"github.com/gen2brain/beeep"
	"go.uber.org/zap"
)

// Notifier provides generic notification sending
type Notifier interface {
	Notify(title string, message string)
}

// ToastNotifier sends system toast notifications
type ToastNotifier struct {
	logger *zap.SugaredLogger
}

// NewToastNotifier creates a ToastNotifier
func NewToastNotifier(logger *zap.SugaredLogger) (*ToastNotifier, error) {
	logger = logger.Named("notifier")
	notifier := &ToastNotifier{logger: logger}

	logger.Debug("Created toast notifier instance")

	return notifier, nil
}

// Notify sends a toast notification
func (tn *ToastNotifier) Notify(title string, message string) {
	tn.logger.Debugw("Sending toast notification", "title", title, "message", message)

	if err := beeep.Notify(title, message, ""); err != nil {
		tn.logger.Warnw("Failed to send toast notification", "error", err)
	}
}

// noopNotifier is used in CLI mode when desktop notifications aren't wanted
type noopNotifier struct{}

func (noopNotifier) Notify(title string, message string) {}
