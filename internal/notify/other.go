//go:build !darwin && !linux

// Package notify delivers desktop notifications.
// Platforms without a supported delivery mechanism get a silent notifier.
package notify

type unsupportedNotifier struct{}

func newPlatformNotifier() Notifier {
	return &unsupportedNotifier{}
}

func (n *unsupportedNotifier) Send(title, message string) error { return nil }

func (n *unsupportedNotifier) SendWithSound(title, message string) error { return nil }

func (n *unsupportedNotifier) IsSupported() bool { return false }
