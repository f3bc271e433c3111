package object

import "errors"

var (
	// ErrNotFound reports that no object is stored under the requested hash
	// or prefix.
	ErrNotFound = errors.New("object not found")
	// ErrAmbiguous reports that an abbreviated hash matches more than one
	// stored object.
	ErrAmbiguous = errors.New("ambiguous object id")
)
