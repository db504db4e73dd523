package bind

import "src.tether.dev/pkg/expr"

// ExtractPath walks a chain of member accesses rooted at a variable and
// returns the root variable and the normalized source path. Member segments
// join with "."; a [Current] call adds a "/" that absorbs the following
// separator, so Current(model.Items).Name yields "Items/Name" and a trailing
// Current yields "Items/". A bare variable yields the empty path.
//
// Node shapes outside this grammar report ok=false rather than an error, so
// that compiler rules higher up can try other interpretations of the same
// subtree.
func ExtractPath(n expr.Node) (root *expr.Var, path string, ok bool) {
	switch n := n.(type) {
	case *expr.Var:
		return n, "", true
	case *expr.Prop:
		return extractSegment(n.Recv, n.Name)
	case *expr.Field:
		return extractSegment(n.Recv, n.Name)
	case *expr.Call:
		if n.Fn.Is(Current) && len(n.Args) == 1 {
			root, path, ok := ExtractPath(n.Args[0])
			if !ok {
				return nil, "", false
			}
			return root, path + "/", true
		}
	}
	return nil, "", false
}

func extractSegment(recv expr.Node, name string) (*expr.Var, string, bool) {
	root, path, ok := ExtractPath(recv)
	if !ok {
		return nil, "", false
	}
	return root, joinSegment(path, name), true
}

// joinSegment appends one member segment to a path. A "/" already present at
// the end concatenates directly; otherwise segments are separated by ".".
func joinSegment(path, name string) string {
	switch {
	case path == "":
		return name
	case path[len(path)-1] == '/':
		return path + name
	default:
		return path + "." + name
	}
}
