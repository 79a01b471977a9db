package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// Sentry starts a Sentry transaction per request on a cloned hub and binds
// it to the request context. Server errors (5xx, or errors recorded with
// c.Error) are reported when the handler returns. Without a configured client
// the middleware is a pass-through.
func Sentry() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sentry.CurrentHub().Client() == nil {
			c.Next()
			return
		}

		hub := sentry.CurrentHub().Clone()
		ctx := sentry.SetHubOnContext(c.Request.Context(), hub)

		tx := sentry.StartTransaction(ctx,
			fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path),
			sentry.ContinueFromRequest(c.Request),
		)
		defer func() {
			tx.Status = sentry.HTTPtoSpanStatus(c.Writer.Status())
			tx.Finish()
		}()

		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetContext("Request", map[string]interface{}{
				"Method":  c.Request.Method,
				"URL":     redactPII(c.Request.URL.String()),
				"Headers": safeHeaders(c.Request.Header),
			})
			scope.SetTag("http.method", c.Request.Method)
			scope.SetTag("http.route", c.FullPath())
			if rid := c.Writer.Header().Get(HeaderRequestID); rid != "" {
				scope.SetTag("request_id", rid)
			}
		})

		c.Request = c.Request.WithContext(tx.Context())
		c.Next()

		if c.Writer.Status() < http.StatusInternalServerError && len(c.Errors) == 0 {
			return
		}
		if len(c.Errors) == 0 {
			hub.CaptureMessage(fmt.Sprintf("%s %s returned %d", c.Request.Method, c.FullPath(), c.Writer.Status()))
			return
		}
		for _, e := range c.Errors {
			hub.CaptureException(e.Err)
		}
	}
}

// reportPanic forwards a recovered panic to the request's hub, if any.
func reportPanic(c *gin.Context, rec any) {
	if c.Request == nil {
		return
	}
	if hub := sentry.GetHubFromContext(c.Request.Context()); hub != nil {
		hub.RecoverWithContext(c.Request.Context(), rec)
	}
}

func safeHeaders(h http.Header) map[string]interface{} {
	safe := make(map[string]interface{}, len(h))
	for k, v := range h {
		switch strings.ToLower(k) {
		case "authorization", "cookie":
			safe[k] = "[FILTERED]"
		default:
			safe[k] = redactPII(strings.Join(v, ", "))
		}
	}
	return safe
}
