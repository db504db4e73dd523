package bind

import (
	"reflect"

	"src.tether.dev/pkg/expr"
)

// ResolveTarget resolves the LHS of a binding statement to the widget it
// names and the identifier of the property being bound. The final segment of
// the access chain is the property; everything before it is evaluated
// immediately against the runtime values closed over by the expression's
// variables, so local aliases to widgets resolve at compile time at no
// runtime cost.
func ResolveTarget(lhs expr.Node) (target any, property string, err error) {
	var recv expr.Node
	switch lhs := lhs.(type) {
	case *expr.Prop:
		recv, property = lhs.Recv, lhs.Name
	case *expr.Field:
		recv, property = lhs.Recv, lhs.Name
	default:
		return nil, "", &BadTargetError{Node: lhs, Reason: "not a member-access chain"}
	}
	target, reason := evalChain(recv)
	if reason != "" {
		return nil, "", &BadTargetError{Node: lhs, Reason: reason}
	}
	if isNil(target) {
		return nil, "", &BadTargetError{Node: lhs, Reason: "target object is nil"}
	}
	return target, property, nil
}

// evalChain evaluates a member-access chain to a concrete runtime value. A
// non-empty reason describes why evaluation failed.
func evalChain(n expr.Node) (v any, reason string) {
	switch n := n.(type) {
	case *expr.Var:
		if n.Value == nil {
			return nil, "variable " + n.Name + " has no runtime value"
		}
		return n.Value, ""
	case *expr.Prop:
		return evalMember(n.Recv, n.Name)
	case *expr.Field:
		return evalMember(n.Recv, n.Name)
	}
	return nil, "unsupported node " + n.String() + " in target chain"
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

func evalMember(recv expr.Node, name string) (any, string) {
	v, reason := evalChain(recv)
	if reason != "" {
		return nil, reason
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, "nil receiver for member " + name
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, "receiver of member " + name + " is not a struct"
	}
	f := rv.FieldByName(name)
	if !f.IsValid() {
		return nil, "no member " + name + " on " + rv.Type().String()
	}
	return f.Interface(), ""
}
