package bind

import (
	"errors"
	"testing"

	"src.tether.dev/pkg/expr"
)

type fakeLabel struct{ Text string }

type fakeWindow struct {
	Title fakeLabel
	Value *fakeLabel
}

func TestResolveTarget_Chain(t *testing.T) {
	w := &fakeWindow{Value: &fakeLabel{}}
	lhs := &expr.Prop{
		Recv: &expr.Prop{Recv: &expr.Var{Name: "win", Value: w}, Name: "Value"},
		Name: "Text",
	}
	target, property, err := ResolveTarget(lhs)
	if err != nil {
		t.Fatal(err)
	}
	if target != w.Value {
		t.Errorf("target = %v, want the Value widget", target)
	}
	if property != "Text" {
		t.Errorf("property = %q, want Text", property)
	}
}

func TestResolveTarget_LocalAlias(t *testing.T) {
	// A let-style shortcut: the variable holds the widget directly.
	lbl := &fakeLabel{}
	lhs := &expr.Prop{Recv: &expr.Var{Name: "lbl", Value: lbl}, Name: "Text"}
	target, property, err := ResolveTarget(lhs)
	if err != nil {
		t.Fatal(err)
	}
	if target != lbl || property != "Text" {
		t.Errorf("resolved (%v, %q), want the aliased label and Text", target, property)
	}
}

func TestResolveTarget_Errors(t *testing.T) {
	tests := []struct {
		name string
		lhs  expr.Node
	}{
		{"not a chain", &expr.Lit{Value: 1}},
		{"unbound variable", &expr.Prop{Recv: &expr.Var{Name: "win"}, Name: "Text"}},
		{"missing member", &expr.Prop{
			Recv: &expr.Prop{Recv: &expr.Var{Name: "win", Value: &fakeWindow{}}, Name: "NoSuch"},
			Name: "Text",
		}},
		{"nil receiver", &expr.Prop{
			Recv: &expr.Prop{Recv: &expr.Var{Name: "win", Value: &fakeWindow{}}, Name: "Value"},
			Name: "Text",
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := ResolveTarget(test.lhs)
			var bad *BadTargetError
			if !errors.As(err, &bad) {
				t.Errorf("error = %v, want BadTargetError", err)
			}
		})
	}
}
