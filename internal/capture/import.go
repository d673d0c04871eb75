package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"driller/internal/logging"
)

// Import parses the capture script at path and stores it. Only one import
// runs at a time per data directory; a concurrent import fails with
// ErrLocked.
func (s *Store) Import(ctx context.Context, path string) (*Capture, error) {
	lock := flock.New(s.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire import lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, s.lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release import lock", logging.Error(err))
		}
	}()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture script: %w", err)
	}
	defer file.Close()

	script, err := ParseScript(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if script.Source == "" {
		if abs, err := filepath.Abs(path); err == nil {
			script.Source = abs
		} else {
			script.Source = path
		}
	}

	s.logger.Debug("importing capture", logging.String("path", path), logging.String("name", script.Name))
	return s.Create(ctx, script)
}
