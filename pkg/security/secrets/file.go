package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/relay/pkg/providers"
)

// FileProvider loads secrets from individual files in a directory.
//
// Each secret is stored as a separate file named after the secret, as with
// Kubernetes secret volumes. File permissions must be 0600 or 0400.
//
// With watching enabled, the provider monitors the directory and drops its
// cache whenever a file is written, created, removed or renamed.
type FileProvider struct {
	BasePath string
	Watch    bool

	mu        sync.RWMutex
	cache     map[string]providers.Secret
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	closeOnce sync.Once
}

// NewFileProvider creates a new file-based secret provider.
func NewFileProvider(basePath string, watch bool) (*FileProvider, error) {
	p := &FileProvider{
		BasePath: basePath,
		Watch:    watch,
		cache:    make(map[string]providers.Secret),
		stopCh:   make(chan struct{}),
	}

	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base path is not a directory: %s", basePath)
	}

	if watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("failed to create file watcher: %w", err)
		}

		if err := watcher.Add(basePath); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch directory: %w", err)
		}

		p.watcher = watcher
		go p.watchLoop()
	}

	slog.Debug("file-based secret provider started",
		"path", basePath,
		"watch", watch,
	)

	return p, nil
}

// GetSecret reads the secret stored in <BasePath>/<name>.
func (p *FileProvider) GetSecret(ctx context.Context, name string) (providers.Secret, error) {
	p.mu.RLock()
	if value, ok := p.cache[name]; ok {
		p.mu.RUnlock()
		return value, nil
	}
	p.mu.RUnlock()

	path, err := p.secretPath(name)
	if err != nil {
		return providers.Secret{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return providers.Secret{}, fmt.Errorf("%w: secret file %s", ErrSecretNotFound, name)
		}
		return providers.Secret{}, fmt.Errorf("failed to stat secret file: %w", err)
	}

	if mode := info.Mode().Perm(); mode != 0600 && mode != 0400 {
		return providers.Secret{}, fmt.Errorf("insecure permissions on %s: %o (expected 0600 or 0400)", path, mode)
	}

	value, err := ReadSecretFile(path)
	if err != nil {
		return providers.Secret{}, err
	}

	p.mu.Lock()
	p.cache[name] = value
	p.mu.Unlock()

	return value, nil
}

// secretPath joins name onto BasePath and rejects names that escape it.
func (p *FileProvider) secretPath(name string) (string, error) {
	absBase, err := filepath.Abs(p.BasePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(p.BasePath, name))
	if err != nil {
		return "", fmt.Errorf("failed to resolve secret path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid secret path: directory traversal detected")
	}
	return absPath, nil
}

// ListSecrets returns the names of the regular files in the base directory.
func (p *FileProvider) ListSecrets(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(p.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read secrets directory: %w", err)
	}

	var secrets []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			secrets = append(secrets, entry.Name())
		}
	}

	return secrets, nil
}

// Provider returns the provider name.
func (p *FileProvider) Provider() string {
	return "file"
}

// Supports reports whether a regular file with that name exists in the base directory.
func (p *FileProvider) Supports(name string) bool {
	path, err := p.secretPath(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Refresh clears the cache, forcing secrets to be re-read from files.
func (p *FileProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cache = make(map[string]providers.Secret)
	return nil
}

// Close stops the file watcher. It is safe to call more than once.
func (p *FileProvider) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.stopCh)
		if p.watcher != nil {
			err = p.watcher.Close()
		}
	})
	return err
}

// watchLoop monitors the directory for file changes and refreshes the cache.
func (p *FileProvider) watchLoop() {
	const invalidating = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}

			if event.Op&invalidating != 0 {
				slog.Debug("secret file change detected, refreshing secrets",
					"file", filepath.Base(event.Name),
					"op", event.Op.String(),
				)
				_ = p.Refresh(context.Background())
			}

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("secret file watcher error", "error", err)

		case <-p.stopCh:
			return
		}
	}
}

// ReadSecretFile reads a single secret file and trims surrounding whitespace.
// An empty file is treated as a missing secret.
func ReadSecretFile(path string) (providers.Secret, error) {
	// #nosec G304 - secret file locations come from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return providers.Secret{}, fmt.Errorf("%w: file %s", ErrSecretNotFound, path)
		}
		return providers.Secret{}, fmt.Errorf("failed to read secret file: %w", err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return providers.Secret{}, fmt.Errorf("%w: file %s is empty", ErrSecretNotFound, path)
	}

	return providers.NewSecret(value), nil
}
