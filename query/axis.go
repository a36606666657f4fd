package query

// Axis is a direction of traversal relative to a context node.
type Axis int

const (
	Child Axis = iota
	Descendant
	Ancestor
	Preceding
	Following
	PrecedingSibling
	FollowingSibling
	Self
	Parent
)

var axisNames = [...]string{
	Child:            "child",
	Descendant:       "descendant",
	Ancestor:         "ancestor",
	Preceding:        "preceding",
	Following:        "following",
	PrecedingSibling: "preceding-sibling",
	FollowingSibling: "following-sibling",
	Self:             "self",
	Parent:           "parent",
}

// String returns the XPath axis name.
func (a Axis) String() string {
	if !a.valid() {
		return "unknown"
	}
	return axisNames[a]
}

// Reverse reports whether the axis walks backwards from the context node.
func (a Axis) Reverse() bool {
	switch a {
	case Ancestor, Preceding, PrecedingSibling, Parent:
		return true
	default:
		return false
	}
}

func (a Axis) valid() bool {
	return a >= Child && a <= Parent
}

// prefix returns the step text preceding the node test.
func (a Axis) prefix(absolute bool) string {
	anchor := "./"
	if absolute {
		anchor = "/"
	}
	switch a {
	case Child:
		return anchor
	case Descendant:
		return anchor + "/"
	default:
		return anchor + axisNames[a] + "::"
	}
}
