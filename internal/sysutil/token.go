package sysutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
)

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// TokenPath resolves where the CLI keeps its bearer token: override, then
// SHILPKAAR_TOKEN_FILE, then <user config dir>/shilpkaar/token.
func TokenPath(override string) (string, error) {
	if p := FirstNonEmpty(override, os.Getenv("SHILPKAAR_TOKEN_FILE")); p != "" {
		return strings.TrimSpace(p), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "shilpkaar", "token"), nil
}

// ReadToken returns the stored token, or "" when none was saved.
func ReadToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// WriteToken stores tok with owner-only permissions. An empty tok removes
// the file.
func WriteToken(path, tok string) error {
	if tok == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(tok+"\n"), 0o600)
}
