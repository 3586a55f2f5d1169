package lisa

import "errors"

// Sentinel errors returned by the analysis pipeline. All are fatal to the
// call that produced them: no partial output is ever returned alongside an
// error. Match with errors.Is.
var (
	// ErrValidation reports malformed input to the orchestrating entry
	// point: a nil collection, a missing or empty column name, or a column
	// containing non-finite values.
	ErrValidation = errors.New("lisa: invalid input")

	// ErrInsufficientData reports fewer than 3 features, the minimum
	// required to construct a neighbor graph.
	ErrInsufficientData = errors.New("lisa: insufficient data")

	// ErrInvalidParameter reports a malformed tuning parameter, such as a
	// negative neighbor count.
	ErrInvalidParameter = errors.New("lisa: invalid parameter")

	// ErrInvalidGeometry reports a missing, empty, or unsupported feature
	// geometry.
	ErrInvalidGeometry = errors.New("lisa: invalid geometry")

	// ErrInvalidInput reports a malformed numeric vector handed directly to
	// the statistics engine: wrong length for the weight matrix, or
	// non-finite values.
	ErrInvalidInput = errors.New("lisa: invalid statistics input")
)
