package imageloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	apperrors "smartshop/pkg/errors"

	"go.uber.org/zap"
)

// DefaultMaxBytes caps an image body when no limit is configured.
const DefaultMaxBytes int64 = 10 << 20

// Loader downloads raw image bytes by URL. Decoding and caching are left to
// the caller.
//
// Only hosts on the allowlist are fetched, redirects included. With an empty
// allowlist every URL is refused.
type Loader struct {
	httpClient   *http.Client
	logger       *zap.Logger
	allowedHosts map[string]struct{}
	maxBytes     int64
}

// Option configures a Loader.
type Option func(*Loader)

// WithAllowedHosts sets the hosts images may be fetched from. Hosts are
// matched case-insensitively, without port.
func WithAllowedHosts(hosts ...string) Option {
	return func(l *Loader) {
		for _, host := range hosts {
			l.allowedHosts[strings.ToLower(host)] = struct{}{}
		}
	}
}

// WithMaxBytes caps the accepted body size.
func WithMaxBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

func NewLoader(httpClient *http.Client, logger *zap.Logger, opts ...Option) *Loader {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	l := &Loader{
		logger:       logger,
		allowedHosts: make(map[string]struct{}),
		maxBytes:     DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(l)
	}

	// Shallow copy so the shared client keeps its own redirect policy.
	client := *httpClient
	client.CheckRedirect = l.checkRedirect
	l.httpClient = &client
	return l
}

// Image is a downloaded image body and its declared content type.
type Image struct {
	Data        []byte
	ContentType string
}

var errHostNotAllowed = errors.New("host is not allowed")

func (l *Loader) allowed(u *url.URL) bool {
	_, ok := l.allowedHosts[strings.ToLower(u.Hostname())]
	return ok
}

func (l *Loader) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("stopped after 10 redirects")
	}
	if !l.allowed(req.URL) {
		return fmt.Errorf("redirect to %s: %w", req.URL.Host, errHostNotAllowed)
	}
	return nil
}

// FetchImage performs one GET for rawURL. Non-2xx statuses map to the same
// error kinds as catalog requests.
func (l *Loader) FetchImage(ctx context.Context, rawURL string) (*Image, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperrors.NewInvalidRequest("invalid image URL", rawURL)
	}
	if !l.allowed(u) {
		l.logger.Warn("Refusing image from host not on the allowlist", zap.String("host", u.Host))
		return nil, apperrors.NewInvalidRequest("image host is not allowed", u.Host)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apperrors.NewInvalidRequest("invalid image URL", err.Error())
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, errHostNotAllowed) {
			l.logger.Warn("Refusing image redirect", zap.String("url", rawURL), zap.Error(err))
			return nil, apperrors.NewInvalidRequest("image host is not allowed", err.Error())
		}
		l.logger.Error("Network error", zap.String("url", rawURL), zap.Error(err))
		return nil, apperrors.NewTransportError(err)
	}
	defer resp.Body.Close()

	if statusErr := apperrors.FromStatus(resp.StatusCode, rawURL); statusErr != nil {
		l.logger.Warn("Image request failed", zap.String("url", rawURL), zap.Int("status", resp.StatusCode))
		return nil, statusErr
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, apperrors.NewTransportError(err)
	}
	if int64(len(data)) > l.maxBytes {
		l.logger.Warn("Image too large", zap.String("url", rawURL), zap.Int64("max_bytes", l.maxBytes))
		return nil, apperrors.NewBadResponse(fmt.Sprintf("image exceeds %d bytes, URL: %s", l.maxBytes, rawURL))
	}
	if len(data) == 0 {
		return nil, apperrors.NewBadResponse(fmt.Sprintf("empty image body, URL: %s", rawURL))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &Image{Data: data, ContentType: contentType}, nil
}
