// Package logflags configures the per-layer loggers used across wiztype.
package logflags

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	locator = false
	walker  = false
	dumper  = false
	remote  = false
)

var logOut io.Writer = os.Stderr

func makeLogger(flag bool, fields logrus.Fields) *logrus.Entry {
	logger := logrus.New().WithFields(fields)
	logger.Logger.Out = logOut
	logger.Logger.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	logger.Logger.Level = logrus.DebugLevel
	if !flag {
		logger.Logger.Level = logrus.ErrorLevel
	}
	return logger
}

// Locator returns true if signature scanning and root resolution should log.
func Locator() bool {
	return locator
}

// LocatorLogger returns a logger for the signature locator.
func LocatorLogger() *logrus.Entry {
	return makeLogger(locator, logrus.Fields{"layer": "locator"})
}

// Walker returns true if tree traversal should log.
func Walker() bool {
	return walker
}

// WalkerLogger returns a logger for the hash tree walker and registry builder.
func WalkerLogger() *logrus.Entry {
	return makeLogger(walker, logrus.Fields{"layer": "walker"})
}

// Dumper returns true if schema dumping should log.
func Dumper() bool {
	return dumper
}

// DumperLogger returns a logger for the schema dumpers.
func DumperLogger() *logrus.Entry {
	return makeLogger(dumper, logrus.Fields{"layer": "dumper"})
}

// Remote returns true if foreign memory access should log.
func Remote() bool {
	return remote
}

// RemoteLogger returns a logger for the remote memory layer.
func RemoteLogger() *logrus.Entry {
	return makeLogger(remote, logrus.Fields{"layer": "remote"})
}

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

// Setup enables layers from logstr, a comma separated list of layer names.
// An empty logstr with logFlag set enables every layer.
func Setup(logFlag bool, logstr string) error {
	if !logFlag {
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	if logstr == "" {
		logstr = "locator,walker,dumper,remote"
	}
	for _, layer := range strings.Split(logstr, ",") {
		switch strings.TrimSpace(layer) {
		case "locator":
			locator = true
		case "walker":
			walker = true
		case "dumper":
			dumper = true
		case "remote":
			remote = true
		default:
			return fmt.Errorf("unknown log layer %q", layer)
		}
	}
	return nil
}

// SetOutput redirects every logger created afterwards to w.
func SetOutput(w io.Writer) {
	logOut = w
}
