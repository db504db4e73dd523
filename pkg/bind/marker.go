package bind

// The functions in this file are compile-time markers: the compiler
// recognizes calls to them by identity inside a binding expression and gives
// them meaning there. They have no runtime behavior; calling one outside an
// expression tree is a programming error and panics.

// Current marks traversal into the current item of a collection. Inside a
// source path it compiles to a "/" segment: Current(model.Items).Name binds
// to "Items/Name".
func Current(collection any) any {
	panic("bind.Current is a compile-time marker and must not be called")
}

// Str marks an any-to-string shim around an inner expression. It compiles to
// nothing: the toolkit side already stringifies values, so the descriptor of
// the inner expression is used unchanged.
func Str(v any) string {
	panic("bind.Str is a compile-time marker and must not be called")
}

// Format marks a display format applied to an inner expression. The format
// string must be a literal.
func Format(format string, v any) string {
	panic("bind.Format is a compile-time marker and must not be called")
}

// Convert marks a two-way conversion of an inner expression through c, which
// must be a closed-over runtime value implementing [Converter].
func Convert(c Converter, v any) any {
	panic("bind.Convert is a compile-time marker and must not be called")
}
