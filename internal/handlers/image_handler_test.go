package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"smartshop/internal/imageloader"
	apperrors "smartshop/pkg/errors"
	"smartshop/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetImage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/a.jpg" {
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte{0xff, 0xd8, 0xff})
			return
		}
		http.NotFound(w, r)
	}))
	defer upstream.Close()

	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	router := gin.New()
	router.Use(middleware.ErrorHandler(logger))
	upstreamURL, _ := url.Parse(upstream.URL)
	loader := imageloader.NewLoader(nil, logger, imageloader.WithAllowedHosts(upstreamURL.Hostname()))
	router.GET("/api/v1/images", NewImageHandler(loader).GetImage)

	fetch := func(raw string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/images?url="+url.QueryEscape(raw), nil))
		return w
	}

	w := fetch(upstream.URL + "/a.jpg")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, w.Body.Bytes())

	w = fetch(upstream.URL + "/missing.jpg")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.CodeNotFound)

	w = fetch("")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fetch("http://internal.example:8080/admin")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.CodeInvalidRequest)
}
