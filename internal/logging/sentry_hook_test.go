package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentryHook_Fire(t *testing.T) {
	var captured []*sentry.Event
	hook := NewSentryHook([]logrus.Level{logrus.ErrorLevel})
	hook.capture = func(event *sentry.Event) *sentry.EventID {
		captured = append(captured, event)
		return nil
	}

	assert.Equal(t, []logrus.Level{logrus.ErrorLevel}, hook.Levels())

	now := time.Now()
	entry := &logrus.Entry{
		Level:   logrus.ErrorLevel,
		Message: "roster write failed",
		Time:    now,
		Data: logrus.Fields{
			"user":          42,
			logrus.ErrorKey: errors.New("redis down"),
		},
	}
	require.NoError(t, hook.Fire(entry))
	require.Len(t, captured, 1)

	ev := captured[0]
	assert.Equal(t, sentry.LevelError, ev.Level)
	assert.Equal(t, "roster write failed", ev.Message)
	assert.Equal(t, now, ev.Timestamp)
	assert.Equal(t, 42, ev.Extra["user"])
	require.Len(t, ev.Exception, 1)
	assert.Equal(t, "redis down", ev.Exception[0].Value)

	assert.Error(t, hook.Fire(nil))
}

func TestSentryLevel(t *testing.T) {
	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.PanicLevel))
	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.FatalLevel))
	assert.Equal(t, sentry.LevelError, sentryLevel(logrus.ErrorLevel))
	assert.Equal(t, sentry.LevelWarning, sentryLevel(logrus.WarnLevel))
	assert.Equal(t, sentry.LevelInfo, sentryLevel(logrus.InfoLevel))
	assert.Equal(t, sentry.LevelDebug, sentryLevel(logrus.TraceLevel))
}

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("error"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warn"))
	assert.Equal(t, logrus.InfoLevel, GetLevel("info"))
	assert.Equal(t, logrus.TraceLevel, GetLevel(" trace "))
	assert.Equal(t, logrus.InfoLevel, GetLevel("whatever"))
	assert.Equal(t, logrus.InfoLevel, GetLevel(""))
}
