package core

// TeacherID tags a log arg as the acting teacher's identity so logger
// implementations can attach it to error reports.
type TeacherID string

// Logger is any service that can log messages and errors,
// possibly shipping them to an external monitoring system.
// Error expects the causing error among its args.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
