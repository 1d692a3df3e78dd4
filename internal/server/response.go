package server

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	tterrors "github.com/rhyrak/go-timetable/pkg/errors"
	"github.com/rhyrak/go-timetable/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// Envelope is the body of every JSON response.
type Envelope struct {
	Data  any             `json:"data,omitempty"`
	Error *tterrors.Error `json:"error,omitempty"`
	Meta  map[string]any  `json:"meta,omitempty"`
}

func respond(c *gin.Context, status int, data any, meta map[string]any) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Data: data, Meta: meta})
}

func respondError(c *gin.Context, err error) {
	appErr := tterrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(appErr.Status, Envelope{Error: appErr})
}

// requestID assigns every request an id, reusing the caller's header when set.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(logger.RequestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}
