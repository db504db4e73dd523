package bind

import "src.tether.dev/pkg/expr"

// UnsupportedExpressionError is returned when no compiler rule matches an
// expression. It carries the unmatched node for diagnostics.
type UnsupportedExpressionError struct {
	Node expr.Node
}

func (e *UnsupportedExpressionError) Error() string {
	return "unsupported binding expression: " + e.Node.String()
}

// BadTargetError is returned when the LHS of a binding statement does not
// resolve to a concrete widget and property.
type BadTargetError struct {
	Node   expr.Node
	Reason string
}

func (e *BadTargetError) Error() string {
	return "bad binding target " + e.Node.String() + ": " + e.Reason
}
