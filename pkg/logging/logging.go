// Package logging provides the one leveled logger the clerk daemon needs:
// it runs unattended, polling on a fixed back-off, and must leave a trail
// across its poll/cycle loop the way a one-shot CLI command's stderr
// output does not need to. No example repo in the pack imports a
// structured-logging library (the teacher's CLI uses plain fmt.Printf), so
// this stays on the standard library's log.Logger with a prefix — the one
// ambient concern kept there, justified in DESIGN.md.
package logging

import (
	"io"
	"log"
)

// Logger wraps the standard library's log.Logger with the clerk daemon's
// fixed prefix and flags.
type Logger struct {
	*log.Logger
}

// New constructs a Logger writing to w, prefixed with name.
func New(w io.Writer, name string) *Logger {
	return &Logger{log.New(w, "["+name+"] ", log.LstdFlags)}
}

// Infof logs an informational line.
func (l *Logger) Infof(format string, args ...any) { l.Printf(format, args...) }

// Errorf logs an error line. The clerk daemon logs and continues (spec §7
// "clerk daemon logs and continues") rather than exiting on a single
// failed poll.
func (l *Logger) Errorf(format string, args ...any) { l.Printf("error: "+format, args...) }
