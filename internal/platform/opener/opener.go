// Package opener hands external links to the user's default browser.
package opener

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/pkg/browser"
	"go.uber.org/zap"
)

// ErrUnsupportedURL is returned for anything but absolute http(s) URLs
var ErrUnsupportedURL = errors.New("only http and https URLs can be opened")

// Browser opens URLs with the system handler
type Browser struct {
	open   func(string) error
	logger *zap.Logger
}

// New creates a Browser backed by pkg/browser
func New(logger *zap.Logger) *Browser {
	if logger == nil {
		logger = zap.NewNop()
	}
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return &Browser{open: browser.OpenURL, logger: logger}
}

// NewWithFunc creates a Browser that opens URLs with fn
func NewWithFunc(fn func(string) error, logger *zap.Logger) *Browser {
	b := New(logger)
	b.open = fn
	return b
}

// Open validates rawURL and opens it
func (b *Browser) Open(rawURL string) error {
	if err := Validate(rawURL); err != nil {
		return err
	}
	if err := b.open(rawURL); err != nil {
		b.logger.Warn("Failed to open URL", zap.String("url", rawURL), zap.Error(err))
		return fmt.Errorf("open %s: %w", rawURL, err)
	}
	b.logger.Debug("Opened URL", zap.String("url", rawURL))
	return nil
}

// Validate accepts absolute http and https URLs with a host
func Validate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedURL, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
	}
	return nil
}
