package schema

import "errors"

// Validation errors. These are raised at the call boundary, before any
// partial computation happens.
var (
	// ErrBadShape indicates a label array that is not rank 1.
	ErrBadShape = errors.New("labels must be a rank-1 array")

	// ErrLengthMismatch indicates parallel molecule and label inputs of unequal length.
	ErrLengthMismatch = errors.New("molecules and labels must contain the same number of entries")

	// ErrOutOfRange indicates a percentage outside [0, 100].
	ErrOutOfRange = errors.New("percentage must be a number between 0 and 100")
)

// State errors. The session must be scored before metrics can be computed,
// and a scored session cannot be re-populated.
var (
	// ErrEmptyScreening indicates a metric was requested before any molecule was scored.
	ErrEmptyScreening = errors.New("no molecules have been scored yet")

	// ErrMissingThreshold indicates a confusion matrix request on a similarity
	// screening without an explicit threshold.
	ErrMissingThreshold = errors.New("similarity screening requires an explicit threshold")

	// ErrSessionSealed indicates an attempt to re-populate a session after scoring.
	ErrSessionSealed = errors.New("session already holds a scored run; create a new session")
)

// ErrUnsupportedPharmacophore indicates a pharmacophore representation that is
// neither a 3D model nor a fingerprint bit vector.
var ErrUnsupportedPharmacophore = errors.New("pharmacophore must be a 3D model or a fingerprint bit vector")

// ErrDegenerateLabels indicates a label set with zero actives or zero
// inactives, which makes ROC/AUC normalization impossible.
var ErrDegenerateLabels = errors.New("label set must contain at least one active and one inactive")
