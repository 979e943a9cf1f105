package secrets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSecret(t *testing.T, dir, name, value string, perm os.FileMode) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(value), perm); err != nil {
		t.Fatal(err)
	}
	// WriteFile honors the umask; force the exact mode.
	if err := os.Chmod(path, perm); err != nil {
		t.Fatal(err)
	}
}

func TestFileProvider_GetSecret(t *testing.T) {
	tmpDir := t.TempDir()
	writeSecret(t, tmpDir, "test-secret", "test-value\n", 0600)

	provider, err := NewFileProvider(tmpDir, false)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	value, err := provider.GetSecret(context.Background(), "test-secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if value.ExposeSecret() != "test-value" {
		t.Errorf("expected value 'test-value', got '%s'", value.ExposeSecret())
	}
}

func TestFileProvider_GetSecret_NotFound(t *testing.T) {
	provider, err := NewFileProvider(t.TempDir(), false)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	_, err = provider.GetSecret(context.Background(), "nonexistent")
	if !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("expected ErrSecretNotFound, got %v", err)
	}
}

func TestFileProvider_Permissions(t *testing.T) {
	tests := []struct {
		name        string
		permissions os.FileMode
		shouldWork  bool
	}{
		{"0600 permissions", 0600, true},
		{"0400 permissions", 0400, true},
		{"0644 permissions", 0644, false},
		{"0640 permissions", 0640, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeSecret(t, tmpDir, "secret", "value", tt.permissions)

			provider, err := NewFileProvider(tmpDir, false)
			if err != nil {
				t.Fatalf("failed to create provider: %v", err)
			}
			defer provider.Close()

			_, err = provider.GetSecret(context.Background(), "secret")
			if tt.shouldWork && err != nil {
				t.Errorf("expected success, got error: %v", err)
			}
			if !tt.shouldWork && err == nil {
				t.Error("expected error for insecure permissions, got nil")
			}
		})
	}
}

func TestFileProvider_DirectoryTraversal(t *testing.T) {
	parent := t.TempDir()
	secretsDir := filepath.Join(parent, "secrets")
	if err := os.Mkdir(secretsDir, 0700); err != nil {
		t.Fatal(err)
	}
	writeSecret(t, parent, "outside", "value", 0600)

	provider, err := NewFileProvider(secretsDir, false)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	if _, err := provider.GetSecret(context.Background(), "../outside"); err == nil {
		t.Error("expected error for directory traversal, got nil")
	}
	if provider.Supports("../outside") {
		t.Error("expected Supports to reject directory traversal")
	}
}

func TestFileProvider_NotADirectory(t *testing.T) {
	tmpDir := t.TempDir()
	writeSecret(t, tmpDir, "file", "value", 0600)

	if _, err := NewFileProvider(filepath.Join(tmpDir, "file"), false); err == nil {
		t.Error("expected error for non-directory base path, got nil")
	}
}

func TestFileProvider_Refresh(t *testing.T) {
	tmpDir := t.TempDir()
	writeSecret(t, tmpDir, "rotating", "old", 0600)

	provider, err := NewFileProvider(tmpDir, false)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	ctx := context.Background()
	if _, err := provider.GetSecret(ctx, "rotating"); err != nil {
		t.Fatal(err)
	}

	writeSecret(t, tmpDir, "rotating", "new", 0600)

	value, _ := provider.GetSecret(ctx, "rotating")
	if value.ExposeSecret() != "old" {
		t.Errorf("expected cached value 'old', got '%s'", value.ExposeSecret())
	}

	if err := provider.Refresh(ctx); err != nil {
		t.Fatal(err)
	}

	value, _ = provider.GetSecret(ctx, "rotating")
	if value.ExposeSecret() != "new" {
		t.Errorf("expected refreshed value 'new', got '%s'", value.ExposeSecret())
	}
}

func TestFileProvider_Watch(t *testing.T) {
	tmpDir := t.TempDir()
	writeSecret(t, tmpDir, "watched", "old", 0600)

	provider, err := NewFileProvider(tmpDir, true)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	ctx := context.Background()
	if _, err := provider.GetSecret(ctx, "watched"); err != nil {
		t.Fatal(err)
	}

	writeSecret(t, tmpDir, "watched", "new", 0600)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		value, err := provider.GetSecret(ctx, "watched")
		if err == nil && value.ExposeSecret() == "new" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("expected watcher to refresh the secret")
}

func TestFileProvider_CloseTwice(t *testing.T) {
	provider, err := NewFileProvider(t.TempDir(), true)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	if err := provider.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := provider.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestReadSecretFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeSecret(t, tmpDir, "key", "  sk-value \n", 0644)
	writeSecret(t, tmpDir, "empty", "\n", 0600)

	value, err := ReadSecretFile(filepath.Join(tmpDir, "key"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value.ExposeSecret() != "sk-value" {
		t.Errorf("expected 'sk-value', got '%s'", value.ExposeSecret())
	}

	if _, err := ReadSecretFile(filepath.Join(tmpDir, "empty")); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("expected ErrSecretNotFound for empty file, got %v", err)
	}
	if _, err := ReadSecretFile(filepath.Join(tmpDir, "missing")); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("expected ErrSecretNotFound for missing file, got %v", err)
	}
}
