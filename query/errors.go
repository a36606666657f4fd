package query

import (
	"errors"
	"fmt"
)

// ErrConstruction is the root of every error raised while building an
// expression. Construction errors happen before any evaluation.
var ErrConstruction = errors.New("query: cannot build expression")

// Construction errors.
var (
	// ErrEmptyTagSpec indicates a TagSpec with no tag names.
	ErrEmptyTagSpec = fmt.Errorf("%w: tag spec is empty", ErrConstruction)

	// ErrInvalidName indicates a tag or attribute name that is not an XML QName.
	ErrInvalidName = fmt.Errorf("%w: invalid name", ErrConstruction)

	// ErrUnquotableValue indicates an attribute value containing the apostrophe delimiter.
	ErrUnquotableValue = fmt.Errorf("%w: value contains quote delimiter", ErrConstruction)

	// ErrUnknownAxis indicates an Axis outside the defined set.
	ErrUnknownAxis = fmt.Errorf("%w: unknown axis", ErrConstruction)
)
