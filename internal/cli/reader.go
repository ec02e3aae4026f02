package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// ReadAll reads r to EOF, returning early with ErrInputCancelled if ctx is
// done first. The read goroutine finishes on its own once r returns.
func ReadAll(ctx context.Context, r io.Reader) (string, error) {
	type result struct {
		err   error
		value []byte
	}
	resultCh := make(chan result, 1)

	go func() {
		value, err := io.ReadAll(r)
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil {
			return "", fmt.Errorf("failed to read input: %w", res.err)
		}
		return string(res.value), nil
	}
}
