// Command tether-demo exercises the framework end to end from a terminal,
// standing in for a widget toolkit with a handful of console "labels".
//
// It wires a calculator model with a running timer: type "x 3", "y 5" and
// "add" to compute, "work" to start a slow async job, "cancel" to cancel it,
// and "quit" to exit. X and Y persist across runs.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"

	"src.tether.dev/pkg/bind"
	"src.tether.dev/pkg/comp"
	"src.tether.dev/pkg/dispatch"
	"src.tether.dev/pkg/expr"
	"src.tether.dev/pkg/notify"
	"src.tether.dev/pkg/store"
	"src.tether.dev/pkg/stream"
)

type demoModel struct {
	notify.Notifier
	X, Y, Result notify.Prop[int]
	Elapsed      notify.Prop[int]
	Status       notify.Prop[string]
}

func newDemoModel() *demoModel {
	m := &demoModel{}
	m.X = notify.NewProp(&m.Notifier, "X", 0)
	m.Y = notify.NewProp(&m.Notifier, "Y", 0)
	m.Result = notify.NewProp(&m.Notifier, "Result", 0)
	m.Elapsed = notify.NewProp(&m.Notifier, "Elapsed", 0)
	m.Status = notify.NewProp(&m.Notifier, "Status", "idle")
	return m
}

func (m *demoModel) value(name string) (any, bool) {
	switch name {
	case "X":
		return m.X.Get(), true
	case "Y":
		return m.Y.Get(), true
	case "Result":
		return m.Result.Get(), true
	case "Elapsed":
		return m.Elapsed.Get(), true
	case "Status":
		return m.Status.Get(), true
	}
	return nil, false
}

// GetString and SetString persist only the operands.
func (m *demoModel) GetString(name string) (string, bool) {
	switch name {
	case "X":
		return strconv.Itoa(m.X.Get()), true
	case "Y":
		return strconv.Itoa(m.Y.Get()), true
	}
	return "", false
}

func (m *demoModel) SetString(name, value string) bool {
	v, err := strconv.Atoi(value)
	if err != nil {
		return false
	}
	switch name {
	case "X":
		m.X.Set(v)
	case "Y":
		m.Y.Set(v)
	default:
		return false
	}
	return true
}

// label is the console stand-in for a widget with a bindable Text property.
type label struct {
	Name string
	Text string
}

// consoleBinder is a minimal toolkit adapter: it re-evaluates each installed
// descriptor when the head of its source path changes, and prints the result.
type consoleBinder struct {
	model    *demoModel
	bindings []bind.Compiled
}

func (b *consoleBinder) InstallBinding(target any, property string, d *bind.Descriptor) error {
	if _, ok := target.(*label); !ok || property != "Text" {
		return fmt.Errorf("console binder: cannot bind %s of %T", property, target)
	}
	b.bindings = append(b.bindings, bind.Compiled{Target: target, Property: property, Descriptor: d})
	return nil
}

func (b *consoleBinder) watch() func() {
	return b.model.Subscribe(func(name string) {
		for _, c := range b.bindings {
			if pathHead(c.Descriptor.Path) != name {
				continue
			}
			v, ok := b.model.value(name)
			if !ok {
				continue
			}
			if c.Descriptor.Forward != nil {
				v = c.Descriptor.Forward(v)
			}
			text := fmt.Sprint(v)
			if f := c.Descriptor.Format; f != "" {
				text = strings.ReplaceAll(f, "{0}", text)
			}
			lbl := c.Target.(*label)
			lbl.Text = text
			fmt.Printf("[%s] %s\n", lbl.Name, lbl.Text)
		}
	})
}

func pathHead(path string) string {
	if i := strings.IndexAny(path, "./"); i >= 0 {
		return path[:i]
	}
	return path
}

// Events: console commands and timer ticks, unified into one stream.

type command struct {
	name string
	arg  int
}

type tick struct{}

type demoEvent = stream.Either[command, tick]

type demoView struct {
	commands stream.Emitter[command]
	ticks    stream.Emitter[tick]
	binder   *consoleBinder
}

func (v *demoView) InstallBindings(m *demoModel) error {
	v.binder = &consoleBinder{model: m}

	model := &expr.Var{Name: "model", Value: m}
	prop := func(name string) expr.Node { return &expr.Prop{Recv: model, Name: name} }
	target := func(l *label) expr.Node {
		return &expr.Prop{Recv: &expr.Var{Name: l.Name, Value: l}, Name: "Text"}
	}
	format := func(f string, inner expr.Node) expr.Node {
		return &expr.Call{Fn: expr.FuncRef{Name: "bind.Format", Fn: bind.Format}, Args: []expr.Node{
			&expr.Lit{Value: f}, inner,
		}}
	}

	block := &expr.Block{Stmts: []*expr.Assign{
		{LHS: target(&label{Name: "result"}), RHS: format("result: {0}", prop("Result"))},
		{LHS: target(&label{Name: "status"}), RHS: format("status: {0}", prop("Status"))},
		{LHS: target(&label{Name: "clock"}), RHS: format("running time: {0}s", prop("Elapsed"))},
	}}
	if err := bind.InstallAll(block, bind.Options{}, v.binder); err != nil {
		return err
	}
	v.binder.watch()
	return nil
}

func (v *demoView) Events() stream.Producer[demoEvent] {
	return stream.Unify[command, tick](&v.commands, &v.ticks)
}

func (v *demoView) DeclaredEvents() []demoEvent {
	var events []demoEvent
	for _, name := range []string{"x", "y", "add", "work", "cancel", "quit"} {
		events = append(events, stream.Left[command, tick](command{name: name}))
	}
	return append(events, stream.Right[command, tick](tick{}))
}

type demoController struct {
	cancel   func()
	quit     chan struct{}
	quitOnce sync.Once
}

func (c *demoController) InitModel(m *demoModel) {
	m.Status.Set("idle")
}

func (c *demoController) HandlerFor(e demoEvent) (dispatch.Handler[*demoModel], bool) {
	if e.IsRight {
		return dispatch.Sync[*demoModel](func(m *demoModel) {
			m.Elapsed.Set(m.Elapsed.Get() + 1)
		}), true
	}
	switch e.Left.name {
	case "x":
		arg := e.Left.arg
		return dispatch.Sync[*demoModel](func(m *demoModel) { m.X.Set(arg) }), true
	case "y":
		arg := e.Left.arg
		return dispatch.Sync[*demoModel](func(m *demoModel) { m.Y.Set(arg) }), true
	case "add":
		return dispatch.Sync[*demoModel](func(m *demoModel) {
			m.Result.Set(m.X.Get() + m.Y.Get())
		}), true
	case "work":
		return dispatch.Async[*demoModel]{
			Do: func(ctx context.Context, _ *demoModel, post func(func(*demoModel))) error {
				post(func(m *demoModel) { m.Status.Set("working") })
				select {
				case <-time.After(3 * time.Second):
					post(func(m *demoModel) { m.Status.Set("done") })
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
			OnCancel: func(m *demoModel) { m.Status.Set("cancelled") },
		}, true
	case "cancel":
		return dispatch.Sync[*demoModel](func(*demoModel) { c.cancel() }), true
	case "quit":
		return dispatch.Sync[*demoModel](func(*demoModel) {
			c.quitOnce.Do(func() { close(c.quit) })
		}), true
	}
	return nil, false
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tether-demo:", err)
		os.Exit(2)
	}
}

func run() error {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("stdin is not a terminal")
	}

	st, err := store.Open(filepath.Join(os.TempDir(), "tether-demo.db"))
	if err != nil {
		return err
	}
	defer st.Close()

	view := &demoView{}
	ctrl := &demoController{quit: make(chan struct{})}
	c := comp.Component[*demoModel, demoEvent]{
		Model:      newDemoModel(),
		View:       view,
		Controller: ctrl,
	}
	rt, err := comp.Start(c, comp.WithOnError(func(event any, err error) {
		fmt.Fprintf(os.Stderr, "handler error on %v: %v\n", event, err)
	}))
	if rt == nil {
		return err
	}
	if err != nil {
		// Failed bindings leave labels unbound; the demo still runs.
		fmt.Fprintln(os.Stderr, "binding warning:", err)
	}
	defer rt.Stop()
	ctrl.cancel = rt.Cancel

	if err := comp.Restore(st, "demo", c.Model, []string{"X", "Y"}); err != nil {
		fmt.Fprintln(os.Stderr, "restore warning:", err)
	}
	defer comp.PersistOnChange(st, "demo", c.Model, nil)()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			view.ticks.Emit(tick{})
		}
	}()

	fmt.Println("commands: x N, y N, add, work, cancel, quit")
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctrl.quit:
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			cmd, ok := parseCommand(line)
			if !ok {
				fmt.Println("?")
				continue
			}
			view.commands.Emit(cmd)
		}
	}
}

func parseCommand(line string) (command, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, false
	}
	switch fields[0] {
	case "add", "work", "cancel", "quit":
		return command{name: fields[0]}, len(fields) == 1
	case "x", "y":
		if len(fields) != 2 {
			return command{}, false
		}
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return command{}, false
		}
		return command{name: fields[0], arg: v}, true
	}
	return command{}, false
}
