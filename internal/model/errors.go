package model

import "errors"

var (
	// ErrUnsupportedKind is returned for a transformer or classifier kind the
	// loader does not know how to evaluate.
	ErrUnsupportedKind = errors.New("unsupported kind")

	// ErrSchemaMismatch is returned when a row does not carry exactly the
	// columns the preprocessor was fit against, or a cell has the wrong type.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrUnknownCategory is returned by a one-hot encoder that refuses values
	// it did not see at fit time.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrNonFinite is returned when a numeric cell, a transformed feature or
	// a predicted probability is NaN or infinite.
	ErrNonFinite = errors.New("input contains NaN or infinity")

	// ErrInvalidArtifact is returned when the artifact parses but its
	// parameters are inconsistent.
	ErrInvalidArtifact = errors.New("invalid artifact")
)
