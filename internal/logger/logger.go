// Package logger wires logrus into request contexts.
package logger

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

const CorrelationIDField = "correlation_id"

// Init configures the standard logrus logger. Unknown levels fall back to info.
func Init(level, format string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stdout)
	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func WithContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// FromContext returns the entry stored by WithContext, or a fresh one.
func FromContext(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func WithCorrelationID(ctx context.Context, id string) context.Context {
	return WithContext(ctx, FromContext(ctx).WithField(CorrelationIDField, id))
}
