// internal/logging/logging.go
package logging

import (
	"io"

	"github.com/sirupsen/logrus"

	"favicongen/internal/config"
)

// Setup applies the configured level and format to the standard logrus
// logger and sends its output to out.
func Setup(cfg config.LoggingConfig, out io.Writer) {
	Configure(logrus.StandardLogger(), cfg, out)
}

// Configure applies cfg to logger. Unknown levels fall back to info.
func Configure(logger *logrus.Logger, cfg config.LoggingConfig, out io.Writer) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetOutput(out)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}
