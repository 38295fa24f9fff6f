package imageloader

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	apperrors "smartshop/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 1x1 transparent PNG
var pixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
}

func hostOf(t *testing.T, raw string) string {
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Hostname()
}

func TestFetchImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Write(pixel)
		case "/broken.png":
			w.WriteHeader(http.StatusInternalServerError)
		case "/empty.png":
			w.WriteHeader(http.StatusOK)
		case "/gone.png":
			w.WriteHeader(http.StatusGone)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	loader := NewLoader(nil, zap.NewNop(), WithAllowedHosts(hostOf(t, server.URL)))
	ctx := context.Background()

	img, err := loader.FetchImage(ctx, server.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, pixel, img.Data)
	assert.Equal(t, "image/png", img.ContentType)

	tests := []struct {
		path string
		code string
	}{
		{"/missing.png", apperrors.CodeNotFound},
		{"/broken.png", apperrors.CodeServerError},
		{"/gone.png", apperrors.CodeUnexpectedStatus},
		{"/empty.png", apperrors.CodeBadResponse},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := loader.FetchImage(ctx, server.URL+tt.path)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestFetchImage_InvalidURL(t *testing.T) {
	loader := NewLoader(nil, zap.NewNop())

	for _, raw := range []string{"", "ftp://host/x.png", "/relative.png", "://"} {
		_, err := loader.FetchImage(context.Background(), raw)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidRequest), raw)
	}
}

func TestFetchImage_RefusesHostsOffTheAllowlist(t *testing.T) {
	var hits int
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("internal-admin-secret"))
	}))
	defer internal.Close()

	ctx := context.Background()

	_, err := NewLoader(nil, zap.NewNop()).FetchImage(ctx, internal.URL+"/secret")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidRequest), "got %v", err)

	loader := NewLoader(nil, zap.NewNop(), WithAllowedHosts("cdn.example.com"))
	_, err = loader.FetchImage(ctx, internal.URL+"/secret")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidRequest), "got %v", err)

	assert.Equal(t, 0, hits)
}

func TestFetchImage_RefusesRedirectOffTheAllowlist(t *testing.T) {
	redirector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://metadata.internal/latest", http.StatusFound)
	}))
	defer redirector.Close()

	loader := NewLoader(nil, zap.NewNop(), WithAllowedHosts(hostOf(t, redirector.URL)))
	_, err := loader.FetchImage(context.Background(), redirector.URL+"/a.png")

	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidRequest), "got %v", err)
}

func TestFetchImage_BodySizeCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte{0x01}, 64))
	}))
	defer server.Close()

	host := hostOf(t, server.URL)

	_, err := NewLoader(nil, zap.NewNop(), WithAllowedHosts(host), WithMaxBytes(32)).
		FetchImage(context.Background(), server.URL+"/big.png")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeBadResponse), "got %v", err)

	img, err := NewLoader(nil, zap.NewNop(), WithAllowedHosts(host), WithMaxBytes(64)).
		FetchImage(context.Background(), server.URL+"/big.png")
	require.NoError(t, err)
	assert.Len(t, img.Data, 64)
}
