// Package bind compiles binding statements into declarative binding
// descriptors.
//
// A binding statement is an [src.tether.dev/pkg/expr] assignment whose LHS
// names a widget property and whose RHS describes, relative to a model root,
// where the value comes from and how it is transformed. [Compile] reduces the
// RHS to a [Descriptor]; [ResolveTarget] resolves the LHS; a toolkit adapter
// implementing [Installer] attaches the result to the widget. The package
// performs no I/O and never touches widgets itself.
package bind

// Mode describes the direction of data flow of a binding.
type Mode uint8

const (
	// ModeDefault defers the choice of direction to the toolkit adapter.
	ModeDefault Mode = iota
	ModeOneWay
	ModeTwoWay
	ModeOneWayToSource
)

var modeNames = [...]string{"default", "one-way", "two-way", "one-way-to-source"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "bad mode"
}

// Trigger describes when a two-way binding writes back to the source.
type Trigger uint8

const (
	// TriggerDefault defers to the toolkit adapter's per-property default.
	TriggerDefault Trigger = iota
	// TriggerEveryChange writes back on every change of the target property.
	TriggerEveryChange
)

// Converter converts values in both directions between the source property
// and the target property. Both methods must be pure.
type Converter interface {
	Forward(v any) any
	Backward(v any) any
}

// Descriptor is a compiled binding. It is immutable once returned by the
// compiler; the toolkit adapter that installs it is its sole consumer.
type Descriptor struct {
	// Path is the source path relative to the model root. Segments are
	// joined with "."; a "/" marks traversal into the current item of a
	// collection and absorbs the following separator ("Items/Name").
	Path string

	Mode    Mode
	Trigger Trigger

	// Forward converts source values before they reach the target; Backward
	// converts target values written back to the source. Backward is nil for
	// bindings compiled from a plain unary function, which are one-way by
	// construction.
	Forward  func(v any) any
	Backward func(v any) any

	// Format is a display format string applied after Forward, or "".
	Format string

	Fallback  any
	NullValue any

	// Validation participation. Both default to on, which is the opposite of
	// what most toolkits ship with: models built for this framework are
	// expected to always take part in validation. Override through [Options]
	// or [Config].
	ValidatesOnDataErrors bool
	ValidatesOnExceptions bool
}

// Options carries caller-supplied settings that override or fill fields of a
// compiled descriptor. The zero value leaves everything to the compiler.
type Options struct {
	Mode      Mode
	Trigger   Trigger
	Fallback  any
	NullValue any

	// Nil means "use the configured default".
	ValidatesOnDataErrors *bool
	ValidatesOnExceptions *bool
}

func (opts Options) apply(d *Descriptor, cfg Config) {
	if opts.Mode != ModeDefault {
		d.Mode = opts.Mode
	}
	if opts.Trigger != TriggerDefault {
		d.Trigger = opts.Trigger
	}
	if opts.Fallback != nil {
		d.Fallback = opts.Fallback
	}
	if opts.NullValue != nil {
		d.NullValue = opts.NullValue
	}
	d.ValidatesOnDataErrors = cfg.ValidatesOnDataErrors
	d.ValidatesOnExceptions = cfg.ValidatesOnExceptions
	if opts.ValidatesOnDataErrors != nil {
		d.ValidatesOnDataErrors = *opts.ValidatesOnDataErrors
	}
	if opts.ValidatesOnExceptions != nil {
		d.ValidatesOnExceptions = *opts.ValidatesOnExceptions
	}
}

// Installer is the boundary to the toolkit binding engine. InstallBinding
// attaches a compiled descriptor to the given property of a widget.
type Installer interface {
	InstallBinding(target any, property string, d *Descriptor) error
}
