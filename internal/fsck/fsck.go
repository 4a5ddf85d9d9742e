// Package fsck provides the small violation-aggregation helper the
// filesystem facade's consistency checker builds on: collect every
// invariant violation found during a walk instead of stopping at the
// first one, the same multi-error accumulation pattern
// github.com/hashicorp/go-multierror is built for.
package fsck

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Checker accumulates independent invariant violations found while walking
// a filesystem image.
type Checker struct {
	errs *multierror.Error
}

// New returns an empty Checker.
func New() *Checker {
	return &Checker{}
}

// Violation records one invariant violation.
func (c *Checker) Violation(format string, args ...any) {
	c.errs = multierror.Append(c.errs, fmt.Errorf(format, args...))
}

// Err returns the aggregated error, or nil if no violation was recorded.
func (c *Checker) Err() error {
	if c.errs == nil {
		return nil
	}
	return c.errs.ErrorOrNil()
}

// Len reports how many violations have been recorded so far.
func (c *Checker) Len() int {
	if c.errs == nil {
		return 0
	}
	return len(c.errs.Errors)
}
