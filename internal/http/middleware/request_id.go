package middleware

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/gin-gonic/gin"
)

const (
	HeaderRequestID = "X-Request-ID"
	CtxKeyRequestID = "request_id"
)

// RequestID keeps the caller's X-Request-ID when one is sent, otherwise
// mints a random one. The id rides on the gin context and the response
// header so log lines and error payloads can be tied to one delivery.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" {
			rid = randomRequestID()
		}
		c.Set(CtxKeyRequestID, rid)
		c.Writer.Header().Set(HeaderRequestID, rid)
		c.Next()
	}
}

// GetRequestID returns the id RequestID stored, or "" when the middleware
// did not run.
func GetRequestID(c *gin.Context) string {
	v, ok := c.Get(CtxKeyRequestID)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func randomRequestID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "00000000000000000000000000000000"
	}
	return hex.EncodeToString(b[:])
}
