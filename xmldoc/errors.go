package xmldoc

import "errors"

// Sentinel errors for document loading and evaluation.
var (
	// ErrParse indicates the input is not well-formed XML.
	ErrParse = errors.New("xmldoc: parse failed")

	// ErrEvaluation indicates the expression could not be compiled or run.
	ErrEvaluation = errors.New("xmldoc: evaluation failed")

	// ErrNilNode indicates a nil context node.
	ErrNilNode = errors.New("xmldoc: context node is nil")

	// ErrForeignNode indicates a context node from another document.
	ErrForeignNode = errors.New("xmldoc: context node belongs to another document")
)
