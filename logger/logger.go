package logger

import (
	"os"
	"time"

	"github.com/TheZeroSlave/zapsentry"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options carries request metadata attached to sentry events.
type Options struct {
	RequestID string
	Endpoint  string
	AddTrace  bool
}

// NewLogger returns a new zap logger
func NewLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// NewZapSentryLogger returns a new zap logger with sentry integration.
// Falls back to a plain production logger when SENTRY_DSN is not set.
func NewZapSentryLogger(opts *Options) *zap.Logger {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		return log
	}

	if opts == nil {
		opts = &Options{RequestID: "not_set"}
	}

	cfg := zapsentry.Configuration{
		Level:             zapcore.WarnLevel,
		BreadcrumbLevel:   zapcore.WarnLevel,
		EnableBreadcrumbs: true,
		DisableStacktrace: !opts.AddTrace,
		Tags: map[string]string{
			"component":  "system",
			"when":       time.Now().String(),
			"request_id": opts.RequestID,
		},
	}

	core, zErr := zapsentry.NewCore(cfg, zapsentry.NewSentryClientFromDSN(dsn))
	if zErr != nil {
		log.Warn("error creating zap sentry core", zap.Error(zErr))
		return log
	}

	log = zapsentry.AttachCoreToLogger(core, log)
	sentryScope := sentry.NewScope()

	if opts.RequestID != "" {
		sentryScope.AddBreadcrumb(&sentry.Breadcrumb{
			Category: "Request ID",
			Data:     map[string]interface{}{"request_id": opts.RequestID},
		}, 1)
	}

	if opts.Endpoint != "" {
		sentryScope.AddBreadcrumb(&sentry.Breadcrumb{
			Category: "Endpoint",
			Message:  "Endpoint handling the request",
			Data:     map[string]interface{}{"endpoint": opts.Endpoint},
		}, 1)
	}

	return log.With(zapsentry.NewScopeFromScope(sentryScope))
}
