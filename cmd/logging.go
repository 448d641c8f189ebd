package main

import (
	"io"
	"log"
	"log/syslog"
	"os"

	"github.com/dumacp/go-logs/pkg/logs"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logMaxSize    = 1 // megabytes
	logMaxBackups = 7
)

func newLog(logger *logs.Logger, prefix string, flags int, priority int) error {

	logg, err := syslog.NewLogger(syslog.Priority(priority), flags)
	if err != nil {
		return err
	}
	logg.SetPrefix(prefix)
	logger.SetLogError(logg)
	return nil
}

func newFileLog(logger *logs.Logger, w io.Writer, prefix string) {
	logger.SetLogError(log.New(w, prefix, log.LstdFlags))
}

// initLogs routes the leveled loggers to syslog, to stderr (logStd) or to a
// rotating file (logFile). It returns the file to close at shutdown.
func initLogs(debug, logStd bool, logFile string) io.Closer {
	defer func() {
		if !debug {
			logs.LogBuild.Disable()
		}
	}()
	if len(logFile) > 0 {
		w := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
		}
		newFileLog(logs.LogInfo, w, "[ info ] ")
		newFileLog(logs.LogWarn, w, "[ warn ] ")
		newFileLog(logs.LogError, w, "[ error ] ")
		newFileLog(logs.LogBuild, w, "[ build ] ")
		return w
	}
	if logStd {
		newFileLog(logs.LogInfo, os.Stderr, "[ info ] ")
		newFileLog(logs.LogWarn, os.Stderr, "[ warn ] ")
		newFileLog(logs.LogError, os.Stderr, "[ error ] ")
		newFileLog(logs.LogBuild, os.Stderr, "[ build ] ")
		return nil
	}
	newLog(logs.LogInfo, "[ info ] ", log.LstdFlags, 6)
	newLog(logs.LogWarn, "[ warn ] ", log.LstdFlags, 4)
	newLog(logs.LogError, "[ error ] ", log.LstdFlags, 3)
	newLog(logs.LogBuild, "[ build ] ", log.LstdFlags, 7)
	return nil
}
