package codec

import "errors"

// Sentinel errors for the codec package. All of them surface during
// adapter construction, before any job is dispatched.
var (
	// ErrToolNotFound is returned when a required external binary is
	// neither configured nor on PATH.
	ErrToolNotFound = errors.New("required tool not found")

	// ErrUnsupportedPair is returned for a (source, target) combination
	// outside the fixed conversion table.
	ErrUnsupportedPair = errors.New("unsupported conversion pair")

	// ErrArtUnsupported is returned when cover-art copying is requested
	// for a format pair that cannot carry embedded art.
	ErrArtUnsupported = errors.New("cover art not supported for this format pair")
)
