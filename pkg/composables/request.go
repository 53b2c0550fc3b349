package composables

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/clearline-hq/clearline/pkg/constants"
)

// UseLogger returns the request-scoped logger entry. Falls back to a bare
// logger when middleware did not attach one (tests, CLI paths).
func UseLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(constants.LoggerKey)
	if logger == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logger.(*logrus.Entry)
}

func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, entry)
}
