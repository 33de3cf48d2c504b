//go:build !linux

package window

func checkDisplay() error {
	return nil
}
