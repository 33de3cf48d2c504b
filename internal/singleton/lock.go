package singleton

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// HealthCheckTimeout bounds the probe of an instance already holding the port.
const HealthCheckTimeout = 2 * time.Second

// ErrPortBusy means the API port is held by something that is not a
// healthy instance of this application.
var ErrPortBusy = errors.New("port is in use by another process")

// Check reports whether another instance is already serving on addr.
// It returns false with a nil error when the port is free, true when a
// healthy instance answers its health endpoint, and ErrPortBusy when the
// port is taken by something else.
func Check(addr string) (bool, error) {
	ln, err := net.Listen("tcp", addr)
	if err == nil {
		// The real listener is opened by the API server.
		ln.Close()
		return false, nil
	}

	if !isAddrInUse(err) {
		return false, fmt.Errorf("failed to probe %s: %w", addr, err)
	}

	if isInstanceRunning(addr) {
		return true, nil
	}
	return false, fmt.Errorf("%s: %w", addr, ErrPortBusy)
}

func isInstanceRunning(addr string) bool {
	client := &http.Client{Timeout: HealthCheckTimeout}

	resp, err := client.Get("http://" + addr + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
