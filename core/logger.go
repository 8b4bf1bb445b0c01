package core

// Logger is implemented by the services/logger backends.
// args may hold errors, maps of extra data, or the student.Student the log line is about.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
