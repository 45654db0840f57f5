package export

import (
	"errors"
	"fmt"
)

// Kind classifies export failures. All kinds are recoverable at the call
// site: the HTTP layer turns them into a user-facing notice, never a crash.
type Kind string

const (
	// KindRegionNotFound means no rendered chart region matches the id.
	KindRegionNotFound Kind = "region_not_found"
	// KindEmptyCapture means the region exists but produced no content.
	KindEmptyCapture Kind = "empty_capture"
	// KindAssemblyFailure means bitmap capture succeeded but composing the
	// output artifact failed.
	KindAssemblyFailure Kind = "assembly_failure"
)

// ErrInFlight is returned when an export for the same region is already
// running. The busy flag clears when the running export finishes or fails.
var ErrInFlight = errors.New("export already in flight for region")

// Error is the typed export failure.
type Error struct {
	Kind   Kind
	Region string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("export %s: %s", e.Region, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func regionNotFound(region string) error {
	return &Error{Kind: KindRegionNotFound, Region: region}
}

func emptyCapture(region string) error {
	return &Error{Kind: KindEmptyCapture, Region: region}
}

func assemblyFailure(region string, err error) error {
	return &Error{Kind: KindAssemblyFailure, Region: region, Err: err}
}

// NewRegionNotFound is for Rasterizer implementations reporting an unknown id.
func NewRegionNotFound(region string) error { return regionNotFound(region) }

// NewEmptyCapture is for Rasterizer implementations reporting a region with
// nothing rendered in it.
func NewEmptyCapture(region string) error { return emptyCapture(region) }

// KindOf extracts the failure kind, or "" for non-export errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
