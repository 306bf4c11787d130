// Package logging provides the default Logger implementation crawlcore's
// builder wires in when the caller doesn't supply one of their own. The
// teacher (and every internal/* package it ships) logs via the stdlib log
// package directly — no structured logger appears anywhere in it — so Std
// wraps log.Logger rather than introducing zap/zerolog/slog.
package logging

import "log"

// Std is a Logger backed by the standard library's log package.
type Std struct {
	l *log.Logger
}

// NewStd wraps l, or the default std logger (log.Default()) when l is nil.
func NewStd(l *log.Logger) *Std {
	if l == nil {
		l = log.Default()
	}
	return &Std{l: l}
}

func (s *Std) Infof(format string, args ...any) {
	s.l.Printf("INFO "+format, args...)
}

func (s *Std) Errorf(format string, args ...any) {
	s.l.Printf("ERROR "+format, args...)
}
