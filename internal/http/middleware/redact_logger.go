// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the access logger mounted in front of
// the booking API. Appointment traffic carries client names and mobile
// numbers, so nothing identifying is written as-is:
//   - bodies are never logged
//   - mobile numbers, emails and UUIDs are pattern-redacted in the query
//     string and in header values
//   - named query parameters (the name search "q", for instance) are masked
//     wholesale
//   - Authorization, Cookie, Set-Cookie and any extra headers are masked
//
// Usage:
//
//	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
//	    MaskHeaders: []string{"X-Api-Key"},
//	    MaskQuery:   []string{"q"},
//	}))
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RedactOptions configures additional scrub behavior for RedactingLogger.
type RedactOptions struct {
	// MaskHeaders lists extra header names (case-insensitive) whose values are
	// replaced with "[REDACTED]".
	MaskHeaders []string
	// MaskQuery lists query parameter names whose values are replaced with
	// "[REDACTED]".
	MaskQuery []string
}

var (
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	// Digits only, so hex runs inside UUIDs never match. Covers bare 10-digit
	// mobiles ("0123456789") and formatted ones ("+1 212-555-1212").
	phoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// redactPII scrubs identifiers from s. UUIDs go first: the phone pattern is
// the loosest and would otherwise eat their digit groups.
func redactPII(s string) string {
	if s == "" {
		return s
	}
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	s = emailRE.ReplaceAllString(s, "[REDACTED:email]")
	return phoneRE.ReplaceAllString(s, "[REDACTED:phone]")
}

// RedactingLogger returns a Gin middleware that emits one structured log line
// per request with sensitive values scrubbed, at info level, warn for 4xx and
// error for 5xx.
//
// It also attaches a request-scoped logger carrying the request id, available
// through LoggerFrom in handlers and through log.Ctx in services.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	maskHeaders := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			maskHeaders[h] = struct{}{}
		}
	}

	var maskParams []*regexp.Regexp
	for _, p := range opts.MaskQuery {
		if p = strings.TrimSpace(p); p != "" {
			maskParams = append(maskParams, regexp.MustCompile(`(^|&)(`+regexp.QuoteMeta(p)+`)=[^&]*`))
		}
	}
	scrubQuery := func(raw string) string {
		for _, re := range maskParams {
			raw = re.ReplaceAllString(raw, "${1}${2}=[REDACTED]")
		}
		return redactPII(raw)
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := scrubQuery(c.Request.URL.RawQuery)

		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := maskHeaders[strings.ToLower(k)]; ok {
				safeHeaders[k] = "[REDACTED]"
				continue
			}
			safeHeaders[k] = redactPII(strings.Join(vv, ", "))
		}

		reqID := c.Writer.Header().Get(HeaderRequestID)
		if reqID == "" {
			reqID = c.GetHeader(HeaderRequestID)
		}

		lg := log.With().
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger()
		attachLogger(c, &lg)

		c.Next()

		status := c.Writer.Status()
		ev := lg.Info()
		switch {
		case status >= 500:
			ev = lg.Error()
		case status >= 400:
			ev = lg.Warn()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", redactPII(c.Errors.String()))
		}

		ev.
			Str("query", safeQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}
