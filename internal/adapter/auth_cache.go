package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/MKhiriev/go-swiftly/internal/logger"
	"github.com/MKhiriev/go-swiftly/models"
)

// AuthCachePath returns the auth cache file for user inside dir, normally
// the OS temporary directory.
func AuthCachePath(dir, user string) string {
	return filepath.Join(dir, user+".swiftly")
}

// authCache persists [models.AuthInfo] as JSON with owner-only permissions.
type authCache struct {
	path   string
	logger *logger.Logger

	mu sync.Mutex
}

func newAuthCache(path string, log *logger.Logger) *authCache {
	return &authCache{path: path, logger: log}
}

func (c *authCache) load() (models.AuthInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn().Err(err).Str("path", c.path).Msg("failed to read auth cache")
		}
		return models.AuthInfo{}, false
	}

	var info models.AuthInfo
	if err = json.Unmarshal(data, &info); err != nil || info.IsZero() {
		c.logger.Warn().Err(err).Str("path", c.path).Msg("ignoring malformed auth cache")
		return models.AuthInfo{}, false
	}

	c.logger.Debug().Str("path", c.path).Msg("auth cache hit")
	return info, true
}

func (c *authCache) store(info models.AuthInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encode auth cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*")
	if err != nil {
		return fmt.Errorf("create auth cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err = tmp.Chmod(0o600); err == nil {
		_, err = tmp.Write(data)
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write auth cache: %w", err)
	}

	if err = os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("replace auth cache: %w", err)
	}
	return nil
}

func (c *authCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.Warn().Err(err).Str("path", c.path).Msg("failed to remove auth cache")
	}
}
