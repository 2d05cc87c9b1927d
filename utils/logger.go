package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  = newLogger(os.Stdout, logrus.InfoLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel)
)

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	l.SetLevel(level)
	return l
}

// InitLogger mengatur ulang logger global. level kosong = info.
func InitLogger(level ...string) {
	lvl := logrus.InfoLevel
	if len(level) > 0 && level[0] != "" {
		if parsed, err := logrus.ParseLevel(level[0]); err == nil {
			lvl = parsed
		}
	}
	InfoLogger = newLogger(os.Stdout, lvl)
	// Error logger tetap menampilkan warning ke atas
	errLvl := logrus.WarnLevel
	if lvl < errLvl {
		errLvl = lvl
	}
	ErrorLogger = newLogger(os.Stderr, errLvl)
}
