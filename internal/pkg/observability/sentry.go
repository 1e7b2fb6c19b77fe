// Package observability wires error reporting to Sentry.
package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
)

const flushTimeout = 2 * time.Second

// InitSentry configures the global Sentry hub. An empty dsn leaves
// reporting disabled and every capture becomes a no-op.
func InitSentry(dsn, environment, release string) error {
	if dsn == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          release,
		AttachStacktrace: true,
	})
}

// FlushSentry waits for buffered events before the process exits.
func FlushSentry() {
	sentry.Flush(flushTimeout)
}

// CaptureError reports err with the request attributes that locate it.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// CapturePanic reports a recovered panic together with its stack.
func CapturePanic(rec any, stack []byte) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetExtra("panic", rec)
		scope.SetExtra("stack", string(stack))
		sentry.CaptureMessage("panic in request")
	})
}
