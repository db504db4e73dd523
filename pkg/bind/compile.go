package bind

import (
	"reflect"

	"src.tether.dev/pkg/expr"
)

// Compile compiles the RHS of a binding statement into a Descriptor using
// the default configuration. See [Config.Compile].
func Compile(rhs expr.Node, opts Options) (*Descriptor, error) {
	return DefaultConfig().Compile(rhs, opts)
}

// Compile reduces the RHS of a binding statement to a Descriptor, or fails
// with [*UnsupportedExpressionError].
//
// The supported shapes, tried in order with the first match winning, each
// recursing into the expression they wrap:
//
//  1. A member-access chain rooted at the model variable (see [ExtractPath]).
//  2. A type coercion: compiles to the inner descriptor unchanged.
//  3. A [Str] shim: inner descriptor unchanged.
//  4. A single-argument construction (a nullable shim around a non-nullable
//     model property): inner descriptor unchanged.
//  5. A [Format] call with a literal format string: sets Format.
//  6. A call to any other unary function: sets Forward to that function and
//     forces ModeOneWay. No backward mapping is ever inferred.
//  7. A [Convert] call with a closed-over [Converter]: sets both directions.
//
// Caller-supplied opts then override or fill descriptor fields; the
// validation flags default from cfg.
func (cfg Config) Compile(rhs expr.Node, opts Options) (*Descriptor, error) {
	d, err := compileNode(rhs)
	if err != nil {
		return nil, err
	}
	opts.apply(d, cfg)
	return d, nil
}

func compileNode(n expr.Node) (*Descriptor, error) {
	if _, path, ok := ExtractPath(n); ok {
		return &Descriptor{Path: path}, nil
	}
	switch n := n.(type) {
	case *expr.Convert:
		// Coercions are compile-time only.
		return compileNode(n.X)
	case *expr.New:
		if len(n.Args) == 1 {
			// The grammar admits construction only as a nullable shim.
			return compileNode(n.Args[0])
		}
	case *expr.Call:
		switch {
		case n.Fn.Is(Str) && len(n.Args) == 1:
			// The toolkit side stringifies on its own.
			return compileNode(n.Args[0])
		case n.Fn.Is(Format) && len(n.Args) == 2:
			lit, ok := n.Args[0].(*expr.Lit)
			if !ok {
				break
			}
			format, ok := lit.Value.(string)
			if !ok {
				break
			}
			d, err := compileNode(n.Args[1])
			if err != nil {
				return nil, err
			}
			d.Format = format
			return d, nil
		case n.Fn.Is(Convert) && len(n.Args) == 2:
			c, ok := closedOverValue(n.Args[0]).(Converter)
			if !ok {
				break
			}
			d, err := compileNode(n.Args[1])
			if err != nil {
				return nil, err
			}
			d.Forward = c.Forward
			d.Backward = c.Backward
			return d, nil
		case len(n.Args) == 1 && !isMarker(n.Fn):
			forward, ok := unaryFunc(n.Fn.Fn)
			if !ok {
				break
			}
			d, err := compileNode(n.Args[0])
			if err != nil {
				return nil, err
			}
			d.Mode = ModeOneWay
			d.Forward = forward
			d.Backward = nil
			return d, nil
		}
	}
	return nil, &UnsupportedExpressionError{Node: n}
}

// isMarker reports whether fn is one of this package's compile-time markers.
// A marker call that none of the rules above matched is an unsupported shape;
// treating it as a plain unary function would install a converter that panics
// on first use.
func isMarker(fn expr.FuncRef) bool {
	return fn.Is(Current) || fn.Is(Str) || fn.Is(Format) || fn.Is(Convert)
}

// closedOverValue returns the runtime value a literal or variable node closes
// over, or nil.
func closedOverValue(n expr.Node) any {
	switch n := n.(type) {
	case *expr.Lit:
		return n.Value
	case *expr.Var:
		return n.Value
	}
	return nil
}

// unaryFunc adapts a function with exactly one parameter and one result into
// a value converter.
func unaryFunc(fn any) (func(any) any, bool) {
	if fn == nil {
		return nil, false
	}
	rv := reflect.ValueOf(fn)
	t := rv.Type()
	if rv.Kind() != reflect.Func || t.IsVariadic() || t.NumIn() != 1 || t.NumOut() != 1 {
		return nil, false
	}
	return func(v any) any {
		var in reflect.Value
		if v == nil {
			in = reflect.Zero(t.In(0))
		} else {
			in = reflect.ValueOf(v)
		}
		return rv.Call([]reflect.Value{in})[0].Interface()
	}, true
}
