// Package expr defines the expression tree that binding statements are
// written in.
//
// A binding statement has the shape "target.Property <- sourceExpression",
// represented as an [Assign] whose LHS is a member-access chain over a widget
// and whose RHS is built from the node types in this package. The tree is a
// read-only input to the binding compiler; nothing in this package evaluates
// expressions.
package expr

import (
	"fmt"
	"reflect"
	"strings"
)

// Node is an expression tree node.
type Node interface {
	// String renders the node in a form suitable for diagnostics. It is not
	// guaranteed to be parseable.
	String() string
	node()
}

// Var is a reference to a variable in the enclosing scope. Value holds the
// runtime value the variable is bound to, when known; the compiler uses it to
// resolve binding targets declared through local aliases.
type Var struct {
	Name  string
	Value any
}

// Lit is a literal value.
type Lit struct {
	Value any
}

// Prop is a property access on a receiver expression.
type Prop struct {
	Recv Node
	Name string
}

// Field is a field access on a receiver expression. The binding compiler
// treats it identically to Prop; the distinction only records how the source
// statement was written.
type Field struct {
	Recv Node
	Name string
}

// FuncRef identifies a function. Fn holds the function value itself;
// identity comparisons go through [FuncRef.Is], which compares code pointers,
// so that references to the same function always match regardless of how the
// tree was built.
type FuncRef struct {
	Name string
	Fn   any
}

// Is reports whether the reference denotes the same function as fn.
func (r FuncRef) Is(fn any) bool {
	if r.Fn == nil || fn == nil {
		return false
	}
	rv, fv := reflect.ValueOf(r.Fn), reflect.ValueOf(fn)
	return rv.Kind() == reflect.Func && fv.Kind() == reflect.Func &&
		rv.Pointer() == fv.Pointer()
}

// Call is a function or method call. Method calls are represented with the
// receiver as the first argument.
type Call struct {
	Fn   FuncRef
	Args []Node
}

// Convert is a type coercion applied to an inner expression. Coercions exist
// only to satisfy static typing at the statement site and carry no runtime
// effect.
type Convert struct {
	Type string
	X    Node
}

// New is an object construction.
type New struct {
	Type string
	Args []Node
}

// Assign is one binding statement: LHS <- RHS.
type Assign struct {
	LHS Node
	RHS Node
}

// Block is an ordered list of binding statements.
type Block struct {
	Stmts []*Assign
}

func (*Var) node()     {}
func (*Lit) node()     {}
func (*Prop) node()    {}
func (*Field) node()   {}
func (*Call) node()    {}
func (*Convert) node() {}
func (*New) node()     {}
func (*Assign) node()  {}

func (n *Var) String() string  { return n.Name }
func (n *Lit) String() string  { return fmt.Sprintf("%#v", n.Value) }
func (n *Prop) String() string { return n.Recv.String() + "." + n.Name }

func (n *Field) String() string { return n.Recv.String() + "." + n.Name }

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	name := n.Fn.Name
	if name == "" {
		name = "<func>"
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}

func (n *Convert) String() string { return n.Type + "(" + n.X.String() + ")" }

func (n *New) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return "new " + n.Type + "(" + strings.Join(args, ", ") + ")"
}

func (n *Assign) String() string { return n.LHS.String() + " <- " + n.RHS.String() }
