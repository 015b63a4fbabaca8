// Package diag collects errors that the UI deliberately does not surface.
package diag

import (
	"log"
	"sync"
)

// Sink receives errors that were caught and swallowed.
type Sink interface {
	Report(err error)
}

// Func adapts a plain function to a Sink.
type Func func(err error)

func (f Func) Report(err error) { f(err) }

// LogSink writes each error to a standard logger.
type LogSink struct {
	Logger *log.Logger
}

// NewLogSink returns a sink on l, or on the process-wide logger when l is nil.
func NewLogSink(l *log.Logger) *LogSink {
	if l == nil {
		l = log.Default()
	}
	return &LogSink{Logger: l}
}

func (s *LogSink) Report(err error) {
	if err == nil {
		return
	}
	s.Logger.Printf("error %v", err)
}

// Multi fans an error out to every sink.
func Multi(sinks ...Sink) Sink {
	return Func(func(err error) {
		for _, s := range sinks {
			if s != nil {
				s.Report(err)
			}
		}
	})
}

// Recorder keeps reported errors in memory.
type Recorder struct {
	mu   sync.Mutex
	errs []error
}

func (r *Recorder) Report(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

// Errors returns a copy of everything reported so far.
func (r *Recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}

// Last returns the most recent error, or nil.
func (r *Recorder) Last() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[len(r.errs)-1]
}
