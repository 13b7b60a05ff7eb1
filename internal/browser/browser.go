// Package browser opens builder URLs for the user.
package browser

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// Command returns the OS command that opens url in the default browser.
func Command(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", url}
	default:
		return "xdg-open", []string{url}
	}
}

// System opens URLs with the platform's default browser.
type System struct {
	goos  string
	start func(name string, args ...string) error
}

// NewSystem returns a navigator for the current platform.
func NewSystem() *System {
	return &System{goos: runtime.GOOS, start: startDetached}
}

// Open starts the browser and does not wait for it.
func (s *System) Open(url string) error {
	name, args := Command(s.goos, url)
	if err := s.start(name, args...); err != nil {
		return fmt.Errorf("opening %s with %s: %w", url, name, err)
	}
	return nil
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait() //nolint:errcheck
	return nil
}

// Printer writes the URL instead of opening it (for --no-browser and
// headless machines).
type Printer struct {
	W io.Writer
}

// Open implements the navigator contract.
func (p Printer) Open(url string) error {
	_, err := fmt.Fprintf(p.W, "Open the builder at: %s\n", url)
	return err
}

// Fallback tries Primary and prints the URL through Secondary when it fails.
type Fallback struct {
	Primary   interface{ Open(string) error }
	Secondary interface{ Open(string) error }
}

// Open implements the navigator contract.
func (f Fallback) Open(url string) error {
	if err := f.Primary.Open(url); err != nil {
		if perr := f.Secondary.Open(url); perr != nil {
			return err
		}
	}
	return nil
}
