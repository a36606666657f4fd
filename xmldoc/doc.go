// Package xmldoc loads XML documents and evaluates XPath expressions over
// them.
//
// It is the concrete evaluator behind the navigator: Parse builds a
// read-only Document with one stable *Node handle per node, and Evaluator
// runs expressions with antchfx/xpath, always returning matches in document
// order regardless of the axis direction.
//
// Identity stamping (Options.AssignIdentity) gives every element lacking the
// identity attribute a generated UUID at load time, so every node can key the
// selection cache before any query runs.
package xmldoc
