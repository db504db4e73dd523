package bind

import (
	"src.tether.dev/pkg/errutil"
	"src.tether.dev/pkg/expr"
)

// Compiled is one fully compiled binding statement.
type Compiled struct {
	Target     any
	Property   string
	Descriptor *Descriptor
}

// CompileAll compiles every statement of a block, in source order, into
// independent bindings sharing no state. A failing statement is skipped and
// its error collected; the remaining statements still compile. The returned
// error combines all per-statement failures (see [errutil.Multi]).
func (cfg Config) CompileAll(b *expr.Block, opts Options) ([]Compiled, error) {
	var compiled []Compiled
	var errs error
	for _, stmt := range b.Stmts {
		c, err := cfg.compileStmt(stmt, opts)
		if err != nil {
			errs = errutil.Append(errs, err)
			continue
		}
		compiled = append(compiled, c)
	}
	return compiled, errs
}

// InstallAll compiles every statement of a block and installs each
// successfully compiled binding through inst as it goes. Bindings installed
// before a failing statement stay installed; the failing statement's widget
// is simply left unbound. The returned error combines all failures.
func (cfg Config) InstallAll(b *expr.Block, opts Options, inst Installer) error {
	var errs error
	for _, stmt := range b.Stmts {
		c, err := cfg.compileStmt(stmt, opts)
		if err != nil {
			errs = errutil.Append(errs, err)
			continue
		}
		errs = errutil.Append(errs, inst.InstallBinding(c.Target, c.Property, c.Descriptor))
	}
	return errs
}

// InstallAll is like [Config.InstallAll] with the default configuration.
func InstallAll(b *expr.Block, opts Options, inst Installer) error {
	return DefaultConfig().InstallAll(b, opts, inst)
}

func (cfg Config) compileStmt(stmt *expr.Assign, opts Options) (Compiled, error) {
	target, property, err := ResolveTarget(stmt.LHS)
	if err != nil {
		return Compiled{}, err
	}
	d, err := cfg.Compile(stmt.RHS, opts)
	if err != nil {
		return Compiled{}, err
	}
	return Compiled{Target: target, Property: property, Descriptor: d}, nil
}
