package middleware

import (
	"bytes"
	"io"

	"github.com/gin-gonic/gin"

	"survey-assessment-backend/utilities"
)

// maxDumpedBody caps how much of a request body is written to the log.
const maxDumpedBody = 4096

// RequestDumpMiddleware logs each request at DEBUG level, body included.
// The body is restored so handlers can still bind it.
func RequestDumpMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		dumped := bodyBytes
		if len(dumped) > maxDumpedBody {
			dumped = dumped[:maxDumpedBody]
		}
		utilities.Debug(
			"[Request %s]\n"+
				"\tMethod: %s\n"+
				"\tURL: %s\n"+
				"\tHeaders: %v\n"+
				"\tBody: %s",
			c.GetString(RequestIDKey),
			c.Request.Method,
			c.Request.URL.String(),
			c.Request.Header,
			string(dumped),
		)

		c.Next()
	}
}
