// README: Process-wide logrus setup (JSON, level, optional rotating file).
package infra

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogger configures the standard logrus logger. When file is set, logs
// go to both stdout and a rotating file. The returned closer flushes that file.
func SetupLogger(level log.Level, file string) io.Closer {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(level)

	if file == "" {
		log.SetOutput(os.Stdout)
		return io.NopCloser(nil)
	}
	rotator := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     14,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return rotator
}
