package log

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

const (
	RequestIDKey = "request_id"

	defaultLogDir = "./storage/logs"
)

type Fields = logrus.Fields

// NewLogger builds the process logger once. LOG_LEVEL picks the level
// (debug by default) and LOG_DIR the rotating file sink, which is skipped
// when APP_ENV is "test".
func NewLogger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetLevel(parseLevel(os.Getenv("LOG_LEVEL")))

		logger.SetFormatter(&formatter.Formatter{
			NoColors:        false,
			TimestampFormat: "02 Jan 06 - 15:04",
			HideKeys:        false,
			CallerFirst:     true,
			CustomCallerFormatter: func(f *runtime.Frame) string {
				s := strings.Split(f.Function, ".")
				funcName := s[len(s)-1]
				return fmt.Sprintf(" \x1b[%dm[%s:%d][%s()]", 34, path.Base(f.File), f.Line, funcName)
			},
		})

		writers := []io.Writer{os.Stderr}

		if os.Getenv("APP_ENV") != "test" {
			writers = append(writers, fileWriter(os.Getenv("LOG_DIR")))
		}

		logger.SetOutput(io.MultiWriter(writers...))
		logger.SetReportCaller(true)
	})

	return logger
}

func fileWriter(dir string) io.Writer {
	if dir == "" {
		dir = defaultLogDir
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, fmt.Sprintf("receiving-%s.log", time.Now().Format("2006-01-02"))),
		LocalTime:  true,
		Compress:   true,
		MaxSize:    100,
		MaxAge:     7,
		MaxBackups: 3,
	}
}

func parseLevel(level string) logrus.Level {
	if level == "" {
		return logrus.DebugLevel
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.DebugLevel
	}
	return lvl
}

// ErrorWithTraceID logs an error under the request id, or a fresh trace id
// when the request has none, and returns the id for the client.
func ErrorWithTraceID(l *logrus.Logger, fields Fields, msg string) string {
	if fields == nil {
		fields = Fields{}
	}

	traceID, _ := fields[RequestIDKey].(string)
	if traceID == "" || traceID == "unknown" {
		id, err := uuid.NewRandom()
		if err != nil {
			traceID = "unknown"
		} else {
			traceID = id.String()
		}
	}

	fields["trace_id"] = traceID
	l.WithFields(fields).Error(msg)

	return traceID
}

func WithRequestID(ctx context.Context, l *logrus.Logger) *logrus.Entry {
	requestID := "unknown"
	if ctx != nil {
		if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
			requestID = id
		}
	}

	return l.WithField(RequestIDKey, requestID)
}
