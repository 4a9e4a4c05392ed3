package statemap

import "fmt"

// DefaultDrillingThreshold is the minimum chain length reported as drilling.
const DefaultDrillingThreshold = 3

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithDrillingThreshold sets the minimum component-chain length a forwarding
// chain must reach before it is reported as drilling. Values below 2 are
// rejected by New.
func WithDrillingThreshold(threshold int) Option {
	return func(a *Analyzer) {
		a.threshold = threshold
	}
}

// Analyzer runs the full graph construction and detector pipeline over
// already-collected IR records. An Analyzer holds configuration only; every
// Analyze call works on a fresh arena and id counter, so one Analyzer may
// serve successive runs without sharing mutable state between them.
type Analyzer struct {
	threshold int
}

// New creates an Analyzer, validating configuration before any input is
// processed.
func New(options ...Option) (*Analyzer, error) {
	a := &Analyzer{threshold: DefaultDrillingThreshold}
	for _, option := range options {
		option(a)
	}
	if a.threshold < 2 {
		return nil, fmt.Errorf("drilling threshold must be >= 2, got %d", a.threshold)
	}
	return a, nil
}

// DrillingThreshold returns the configured reporting threshold.
func (a *Analyzer) DrillingThreshold() int {
	return a.threshold
}
