//go:build darwin

// Package notify delivers desktop notifications.
// macOS delivery goes through osascript's display notification verb.
package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

type darwinNotifier struct{}

func newPlatformNotifier() Notifier {
	return &darwinNotifier{}
}

func (n *darwinNotifier) Send(title, message string) error {
	return n.display(title, message, "")
}

func (n *darwinNotifier) SendWithSound(title, message string) error {
	return n.display(title, message, "default")
}

// IsSupported reports whether osascript is on PATH.
func (n *darwinNotifier) IsSupported() bool {
	_, err := exec.LookPath("osascript")
	return err == nil
}

func (n *darwinNotifier) display(title, message, sound string) error {
	script := fmt.Sprintf(`display notification %q with title %q`,
		escapeAppleScript(message), escapeAppleScript(title))
	if sound != "" {
		script += fmt.Sprintf(` sound name %q`, sound)
	}
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		return fmt.Errorf("osascript failed: %w", err)
	}
	return nil
}

// escapeAppleScript escapes backslashes and quotes for AppleScript strings.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	return strings.ReplaceAll(s, "\"", "\\\"")
}
