// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes per-author result lines. Each line is written with
// a single call under a lock so output from concurrent lookups interleaves
// by whole lines only.
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/scholar-stats/pkg/types"
)

// Printer formats lookup outcomes to w. After the first write error no
// further lines are written; Err returns that error.
type Printer struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Header writes the total author count followed by a blank line.
func (p *Printer) Header(total int) {
	p.printf("%d total authors\n\n", total)
}

// Resolved writes the statistics line for a resolved author. Its signature
// matches resolve.SuccessFunc.
func (p *Printer) Resolved(name string, profile types.FilledProfile) {
	p.printf("%s (%s, %s) cited by %d, h-index of %d\n",
		profile.Name, name, profile.ID, profile.CitedBy, profile.HIndex)
}

// NotFound writes the line for a name without any candidate.
func (p *Printer) NotFound(name string) {
	p.printf("%s not found!\n", name)
}

// Failed writes the line for a lookup that hit an external failure.
func (p *Printer) Failed(name string, err error) {
	p.printf("Exception occurred for %s! Message: %v\n", name, err)
}

// Err returns the first error encountered while writing.
func (p *Printer) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Printer) printf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return
	}
	if _, err := io.WriteString(p.w, line); err != nil {
		p.err = fmt.Errorf("writing results: %w", err)
	}
}
