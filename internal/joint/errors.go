package joint

import "errors"

// Creation-path errors are returned to the caller; a joint that failed to
// materialize is a structural scene defect the caller has to react to.
var (
	// ErrInvalidAxis indicates a degenerate first axis on a non-fixed joint.
	ErrInvalidAxis = errors.New("joint: degenerate axis on non-fixed joint")

	// ErrMissingAnchorBody indicates an anchor policy that references a body
	// the lookup cannot resolve.
	ErrMissingAnchorBody = errors.New("joint: anchor policy references missing body")

	// ErrBackendFailure indicates the physics backend refused to materialize
	// the constraint.
	ErrBackendFailure = errors.New("joint: backend could not create constraint")

	// ErrNotFound is returned by strict lookups only; structural mutators
	// no-op on an absent id instead.
	ErrNotFound = errors.New("joint: no joint with that id")
)
