// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/campaign-wizard/internal/models"
)

// AuditLogMiddleware records every mutating request as an audit row and logs
// every request.
func AuditLogMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/health" || path == "/metrics" {
			c.Next()
			return
		}

		mutating := c.Request.Method != http.MethodGet && c.Request.Method != http.MethodOptions

		// Only what the handler actually consumed is kept; multipart uploads are skipped
		var captured *capturedBody
		if mutating && c.Request.Body != nil && c.Request.Body != http.NoBody && !strings.HasPrefix(c.ContentType(), "multipart/") {
			captured = &capturedBody{ReadCloser: c.Request.Body}
			c.Request.Body = captured
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		userID := c.GetString("user_id")
		orgID := c.GetString("org_id")

		logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"duration":   duration.Milliseconds(),
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
			"user_id":    userID,
			"org_id":     orgID,
		}).Info("Request processed")

		if !mutating || db == nil {
			return
		}

		var requestData map[string]interface{}
		if captured != nil && captured.buf.Len() > 0 && !captured.truncated {
			json.Unmarshal(captured.buf.Bytes(), &requestData)
		}

		auditLog := &models.AuditLog{
			Action:       c.Request.Method + " " + path,
			ResourceType: extractResourceType(path),
			StatusCode:   c.Writer.Status(),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
			NewValues:    models.JSONB(requestData),
		}
		if userID != "" {
			auditLog.UserID = &userID
		}
		if orgID != "" {
			auditLog.OrganizationID = &orgID
		}
		if resourceID := extractResourceID(path); resourceID != "" {
			if parsed, err := uuid.Parse(resourceID); err == nil {
				auditLog.ResourceID = &parsed
			}
		}

		// Save audit log asynchronously
		go func() {
			if err := db.Create(auditLog).Error; err != nil {
				logrus.WithError(err).Error("Failed to create audit log")
			}
		}()
	}
}

// capturedBody copies what the handler reads from the request body, up to
// the size the audit row is willing to keep.
type capturedBody struct {
	io.ReadCloser
	buf       bytes.Buffer
	truncated bool
}

const maxAuditBodyBytes = 64 << 10

func (b *capturedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if n > 0 && !b.truncated {
		if b.buf.Len()+n > maxAuditBodyBytes {
			b.truncated = true
			b.buf.Reset()
		} else {
			b.buf.Write(p[:n])
		}
	}
	return n, err
}

func extractResourceType(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "v1" {
		return parts[1]
	}
	if len(parts) >= 1 && parts[0] != "" {
		return parts[0]
	}
	return "unknown"
}

func extractResourceID(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for _, part := range parts {
		if _, err := uuid.Parse(part); err == nil {
			return part
		}
	}
	return ""
}

// BodyLimit caps request bodies at maxBytes. It must run ahead of any
// middleware that reads the body.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && !strings.HasPrefix(c.ContentType(), "multipart/") {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
