package logging

import (
	"os"
	"strings"

	"github.com/2beens/elitefitness/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultMaxSizeMB = 50

type LoggerSetupParams struct {
	LogFileName   string
	LogToStdout   bool
	LogLevel      string
	LogFormatJSON bool
	Environment   string

	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string

	// zero values: 50MB files, rotated files kept indefinitely
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Setup configures the global logrus logger, optionally reporting errors to sentry
// and writing to a rotated log file.
func Setup(params LoggerSetupParams) {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.SetLevel(GetLevel(params.LogLevel))

	if params.SentryEnabled {
		setupSentry(params)
	}

	if params.LogFileName == "" {
		logrus.SetOutput(os.Stdout)
		logrus.Debugln("logging to stdout only")
		return
	}

	fileWriter := newRotatingWriter(params)
	if params.LogToStdout {
		logrus.SetOutput(pkg.NewCombinedWriter(os.Stdout, fileWriter))
		logrus.Debugf("logging to stdout and %s", fileWriter.Filename)
		return
	}
	logrus.SetOutput(fileWriter)
}

func setupSentry(params LoggerSetupParams) {
	if err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       params.SentryServerName,
	}); err != nil {
		logrus.Errorf("sentry init: %s", err)
		return
	}

	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	logrus.Infof("sentry error reporting enabled for %s", params.SentryServerName)
}

func newRotatingWriter(params LoggerSetupParams) *lumberjack.Logger {
	fileName := params.LogFileName
	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}

	maxSize := params.MaxSizeMB
	if maxSize <= 0 {
		maxSize = defaultMaxSizeMB
	}

	return &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    maxSize,
		MaxBackups: params.MaxBackups,
		MaxAge:     params.MaxAgeDays,
		LocalTime:  false, // UTC
		Compress:   true,
	}
}

// GetLevel parses level case-insensitively; unknown levels fall back to info.
func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
