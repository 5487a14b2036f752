package helpers

import (
	"os"

	"github.com/sirupsen/logrus"
)

// serviceFields stamps every entry with the process name and environment,
// so API, worker and seed logs can share one sink.
type serviceFields logrus.Fields

func (serviceFields) Levels() []logrus.Level { return logrus.AllLevels }

func (f serviceFields) Fire(e *logrus.Entry) error {
	for k, v := range f {
		if _, ok := e.Data[k]; !ok {
			e.Data[k] = v
		}
	}
	return nil
}

// NewLogger returns a logrus logger: coloured text at debug level for
// development, JSON at info level everywhere else.
func NewLogger(service, env string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	switch env {
	case "development", "":
		l.SetLevel(logrus.DebugLevel)
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	default:
		l.SetLevel(logrus.InfoLevel)
		l.SetFormatter(&logrus.JSONFormatter{FieldMap: logrus.FieldMap{logrus.FieldKeyMsg: "message"}})
	}
	l.AddHook(serviceFields{"service": service, "env": env})
	return l
}

// LogWarn records a failure that did not fail the request. A nil logger is ignored.
func LogWarn(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	if logger == nil {
		return
	}
	logger.WithError(err).WithFields(fields).Warn(msg)
}
