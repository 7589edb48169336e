package core

// Identity is the minimal description of an authenticated caller, as decoded
// from their auth token. Soko does not manage users itself; the auth backend does.
type Identity struct {
	ID       string
	Username string
	Email    string
}

// Logger is any service that can log messages of varying severity levels.
// Extra args may carry an error, a map of extra data or an Identity (reported
// as the affected person where the backend supports it).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
