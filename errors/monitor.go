package errors

import "sync"

// Monitor receives diagnostics as compilation proceeds.
type Monitor interface {
	Report(Diagnostic)
}

// MonitorFunc adapts a function to Monitor.
type MonitorFunc func(Diagnostic)

// Report calls f(d).
func (f MonitorFunc) Report(d Diagnostic) {
	f(d)
}

// Discard drops every diagnostic.
var Discard Monitor = MonitorFunc(func(Diagnostic) {})

// Collector is an ordered, concurrency-safe diagnostic log.
type Collector struct {
	mu    sync.Mutex
	items DiagnosticList
}

// Report appends d.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.items = append(c.items, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of the reported diagnostics in order.
func (c *Collector) Diagnostics() DiagnosticList {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(DiagnosticList(nil), c.items...)
}

// Len returns the number of reported diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Tee fans diagnostics out to several monitors in order.
func Tee(monitors ...Monitor) Monitor {
	return MonitorFunc(func(d Diagnostic) {
		for _, m := range monitors {
			if m != nil {
				m.Report(d)
			}
		}
	})
}
