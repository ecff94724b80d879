package glox

import "time"

func defineBuiltins(interp *Interpreter) {
	interp.DefineNative("clock", 0, builtinClock)
}

// NativeFunc is the host implementation behind a native function.
type NativeFunc = func(interp *Interpreter, args []Value) (Value, error)

// NativeFunction is a Callable implemented in Go.
type NativeFunction struct {
	Name   string
	Params int
	Fn     NativeFunc
}

func (n *NativeFunction) Arity() int {
	return n.Params
}

func (n *NativeFunction) Call(interp *Interpreter, args []Value) (Value, error) {
	return n.Fn(interp, args)
}

func (n *NativeFunction) String() string {
	return "<native fn>"
}

// DefineNative binds a Go function in the global environment.
func (i *Interpreter) DefineNative(name string, arity int, fn NativeFunc) {
	i.globals.Define(name, &NativeFunction{
		Name:   name,
		Params: arity,
		Fn:     fn,
	})
}

// builtinClock returns the seconds elapsed since the Unix epoch.
func builtinClock(_ *Interpreter, _ []Value) (Value, error) {
	return float64(time.Now().UnixNano()) / float64(time.Second), nil
}
