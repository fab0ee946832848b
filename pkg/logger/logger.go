package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	FatalLevel LogLevel = "fatal"
)

type Config struct {
	Level  LogLevel `json:"level"`
	Format string   `json:"format"` // json or text
	Output string   `json:"output"` // stdout, stderr, or a file path
}

// Logger wraps a logrus entry so that With* methods return enriched copies
// while sharing one underlying logger.
type Logger struct {
	entry *logrus.Entry
}

func NewLogger(config *Config) (*Logger, error) {
	base := logrus.New()

	level, err := logrus.ParseLevel(string(config.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)

	if config.Format == "json" {
		base.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		base.SetFormatter(&logrus.TextFormatter{TimestampFormat: time.RFC3339})
	}

	switch config.Output {
	case "", "stdout":
		base.SetOutput(os.Stdout)
	case "stderr":
		base.SetOutput(os.Stderr)
	default:
		file, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		base.SetOutput(file)
	}

	return &Logger{entry: logrus.NewEntry(base)}, nil
}

func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *Logger) WithError(err error) *Logger {
	return &Logger{entry: l.entry.WithError(err)}
}

func (l *Logger) WithUserID(userID primitive.ObjectID) *Logger {
	return l.WithField("user_id", userID.Hex())
}

func (l *Logger) WithRideID(rideID primitive.ObjectID) *Logger {
	return l.WithField("ride_id", rideID.Hex())
}

func (l *Logger) Debug(msg string)                          { l.entry.Debug(msg) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Info(msg string)                           { l.entry.Info(msg) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warn(msg string)                           { l.entry.Warn(msg) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Error(msg string)                          { l.entry.Error(msg) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *Logger) Fatal(msg string)                          { l.entry.Fatal(msg) }
func (l *Logger) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }

// LogUserAction tags an audit entry for something a user did.
func (l *Logger) LogUserAction(userID primitive.ObjectID, action string, details map[string]interface{}) {
	entry := l.entry.WithFields(logrus.Fields{
		"user_id": userID.Hex(),
		"action":  action,
		"type":    "user_action",
	})
	if len(details) > 0 {
		entry = entry.WithFields(logrus.Fields(details))
	}
	entry.Info("user action")
}

// LogRideEvent tags an audit entry for a ride lifecycle change.
func (l *Logger) LogRideEvent(rideID primitive.ObjectID, event string, details map[string]interface{}) {
	entry := l.entry.WithFields(logrus.Fields{
		"ride_id": rideID.Hex(),
		"event":   event,
		"type":    "ride_event",
	})
	if len(details) > 0 {
		entry = entry.WithFields(logrus.Fields(details))
	}
	entry.Info("ride event")
}

// LogAPIRequest records one access-log entry per handled request.
func (l *Logger) LogAPIRequest(method, endpoint string, statusCode int, duration time.Duration, userID *primitive.ObjectID) {
	entry := l.entry.WithFields(logrus.Fields{
		"method":      method,
		"endpoint":    endpoint,
		"status_code": statusCode,
		"duration_ms": duration.Milliseconds(),
		"type":        "api_request",
	})
	if userID != nil {
		entry = entry.WithField("user_id", userID.Hex())
	}
	entry.Info("request handled")
}

func (l *Logger) SetOutput(output io.Writer) {
	l.entry.Logger.SetOutput(output)
}
