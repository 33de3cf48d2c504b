package frontend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const probeTimeout = time.Second

// waitReady polls url until it answers with a non-5xx status, the process
// exits, or timeout elapses.
func waitReady(ctx context.Context, url string, timeout time.Duration, exited <-chan struct{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := &http.Client{Timeout: probeTimeout}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = 0

	var lastErr error
	probe := func() error {
		select {
		case <-exited:
			return backoff.Permanent(ErrExited)
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode)
			return lastErr
		}
		return nil
	}

	err := backoff.Retry(probe, backoff.WithContext(b, ctx))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrExited):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		if lastErr != nil {
			return fmt.Errorf("%w after %s: %v", ErrNotReady, timeout, lastErr)
		}
		return fmt.Errorf("%w after %s", ErrNotReady, timeout)
	default:
		return err
	}
}
