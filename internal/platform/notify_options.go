// Package platform delivers desktop notifications through the host's
// native notification service.
package platform

import "time"

// AppName identifies the application to the notification service.
const AppName = "Cartoon Lab"

// DefaultTimeout is used when Options.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Timeout is how long the notification stays visible where the platform
	// honours it.
	Timeout time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}
