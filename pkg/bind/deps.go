package bind

import "src.tether.dev/pkg/expr"

// Dependencies collects every model-relative source path referenced anywhere
// in an expression, in first-occurrence order and without duplicates. It is
// the dependency-extraction half of computed properties: an adapter can treat
// the returned set as the implicit triggers for recomputing a derived value
// whose body is n. The empty path (a bare reference to the model root) is not
// reported.
func Dependencies(n expr.Node) []string {
	var paths []string
	seen := make(map[string]bool)
	collectDeps(n, seen, &paths)
	return paths
}

func collectDeps(n expr.Node, seen map[string]bool, paths *[]string) {
	if _, path, ok := ExtractPath(n); ok {
		if path != "" && !seen[path] {
			seen[path] = true
			*paths = append(*paths, path)
		}
		return
	}
	switch n := n.(type) {
	case *expr.Prop:
		collectDeps(n.Recv, seen, paths)
	case *expr.Field:
		collectDeps(n.Recv, seen, paths)
	case *expr.Call:
		for _, a := range n.Args {
			collectDeps(a, seen, paths)
		}
	case *expr.Convert:
		collectDeps(n.X, seen, paths)
	case *expr.New:
		for _, a := range n.Args {
			collectDeps(a, seen, paths)
		}
	case *expr.Assign:
		collectDeps(n.RHS, seen, paths)
	}
}
