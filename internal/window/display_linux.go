package window

import "os"

// checkDisplay fails when neither an X11 nor a Wayland session is reachable.
func checkDisplay() error {
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return ErrNoDisplay
	}
	return nil
}
