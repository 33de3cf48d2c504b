// Package window hosts the front-end in a native window with an embedded
// browser view.
package window

import (
	"errors"
	"sync"

	webview "github.com/webview/webview_go"

	"todo-desktop/internal/config"
)

// ErrNoDisplay means there is no graphical session to open a window in.
var ErrNoDisplay = errors.New("no display available")

// Window is a native window showing a single page.
type Window struct {
	view webview.WebView

	mu         sync.Mutex
	closed     bool
	terminated bool
}

// New creates the window and navigates it to url. It must be called from
// the goroutine that will call Run, which must be locked to the main OS
// thread. The display is checked first, since the native library cannot
// report a failed window to Go and crashes on first use instead.
func New(cfg config.WindowConfig, url string) (*Window, error) {
	if err := checkDisplay(); err != nil {
		return nil, err
	}

	view := webview.New(cfg.Debug)
	view.SetTitle(cfg.Title)
	view.SetSize(cfg.Width, cfg.Height, webview.HintNone)
	view.Navigate(url)
	return &Window{view: view}, nil
}

// Run shows the window and blocks until it is closed or terminated. The
// native resources are released before Run returns.
func (w *Window) Run() {
	w.view.Run()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.view.Destroy()
}

// Terminate asks the UI loop to exit. It is safe to call from any goroutine
// and more than once.
func (w *Window) Terminate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.terminated {
		return
	}
	w.terminated = true
	w.view.Dispatch(w.view.Terminate)
}
