package resguard

import "github.com/sirupsen/logrus"

// logger emits the lenient-mode warnings for ignored unknown keys.
var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the package logger. Passing nil restores the default.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		logger = logrus.StandardLogger()
		return
	}
	logger = l
}
