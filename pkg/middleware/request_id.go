package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"smartshop/internal/kvstore"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader is the HTTP header name for request ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDContextKey is the context key for request ID
	RequestIDContextKey = "request_id"

	requestKeyPrefix = "request:"
)

var ErrRequestIDNotFound = errors.New("request ID not found")

// StoredResponse is the replayable result of a write request.
type StoredResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// RequestIDStore stores processed write requests for idempotency. Keys come
// from idempotencyKey.
type RequestIDStore interface {
	Store(ctx context.Context, key string, response StoredResponse, ttl time.Duration) error
	// Get returns ErrRequestIDNotFound for unknown or expired keys.
	Get(ctx context.Context, key string) (StoredResponse, error)
}

// KVRequestIDStore keeps request records in the shared key-value store, so
// they survive restarts when the backend is persistent.
type KVRequestIDStore struct {
	kv kvstore.Store
}

func NewKVRequestIDStore(kv kvstore.Store) *KVRequestIDStore {
	return &KVRequestIDStore{kv: kv}
}

func (s *KVRequestIDStore) Store(ctx context.Context, key string, response StoredResponse, ttl time.Duration) error {
	return kvstore.SetJSON(ctx, s.kv, requestKeyPrefix+key, response, ttl)
}

func (s *KVRequestIDStore) Get(ctx context.Context, key string) (StoredResponse, error) {
	var response StoredResponse
	err := kvstore.GetJSON(ctx, s.kv, requestKeyPrefix+key, &response)
	if errors.Is(err, kvstore.ErrNotFound) {
		return StoredResponse{}, ErrRequestIDNotFound
	}
	return response, err
}

// RequestIDMiddleware extracts or generates X-Request-ID header
func RequestIDMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
			logger.Debug("Generated new request ID",
				zap.String("request_id", requestID),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
		}

		c.Set(RequestIDContextKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID retrieves the request ID from the Gin context
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDContextKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// idempotencyKey scopes a request id to its method and path, so a reused id
// on another endpoint is processed as a new request.
func idempotencyKey(c *gin.Context, requestID string) string {
	return requestID + ":" + c.Request.Method + ":" + c.Request.URL.Path
}

func isReadOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

// IdempotencyMiddleware replays the stored response when a write request
// repeats an X-Request-ID that was already processed.
func IdempotencyMiddleware(store RequestIDStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isReadOnly(c.Request.Method) {
			c.Next()
			return
		}

		requestID := GetRequestID(c)
		if requestID == "" {
			c.Next()
			return
		}

		stored, err := store.Get(c.Request.Context(), idempotencyKey(c, requestID))
		switch {
		case errors.Is(err, ErrRequestIDNotFound):
			c.Next()
		case err != nil:
			// Fail open: a broken store must not block cart writes.
			logger.Warn("Error checking request ID",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
			c.Next()
		default:
			logger.Info("Duplicate request detected, returning stored response",
				zap.String("request_id", requestID),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
			c.Abort()
		}
	}
}

// StoreResponseMiddleware records successful write responses for replay.
func StoreResponseMiddleware(store RequestIDStore, logger *zap.Logger, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isReadOnly(c.Request.Method) {
			c.Next()
			return
		}

		requestID := GetRequestID(c)
		if requestID == "" {
			c.Next()
			return
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           make([]byte, 0),
		}
		c.Writer = writer

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 || len(writer.body) == 0 || !json.Valid(writer.body) {
			return
		}
		record := StoredResponse{Status: status, Body: writer.body}
		if err := store.Store(c.Request.Context(), idempotencyKey(c, requestID), record, ttl); err != nil {
			logger.Warn("Failed to store response for idempotency",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
			return
		}
		logger.Debug("Stored response for idempotency",
			zap.String("request_id", requestID),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
		)
	}
}

// responseWriter captures the response body
type responseWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body = append(w.body, []byte(s)...)
	return w.ResponseWriter.WriteString(s)
}
