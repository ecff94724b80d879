package glox

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// Value is a runtime value: nil, bool, float64, string or Callable.
type Value interface{}

// Callable is any value that can appear as the callee of a call expression.
type Callable interface {
	Arity() int
	Call(interp *Interpreter, args []Value) (Value, error)
	String() string
}

// Function is a user-defined function together with the environment it was
// declared in.
type Function struct {
	decl    *FuncDecl
	closure *Environment
}

func (f *Function) Arity() int {
	return len(f.decl.Params)
}

// Call runs the body in a fresh environment chained to the closure, so the
// body sees the bindings visible where the function was declared.
func (f *Function) Call(interp *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.closure)
	for i, param := range f.decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	res, err := interp.executeBlock(f.decl.Body, env)
	if err != nil {
		return nil, err
	}

	if res.returned {
		return res.value, nil
	}

	return nil, nil
}

func (f *Function) String() string {
	return "<fn " + f.decl.Name.Lexeme + ">"
}

// completion describes how a statement finished. A returned completion
// unwinds enclosing statements up to the nearest function call.
type completion struct {
	returned bool
	value    Value
}

var normal = completion{}

type Interpreter struct {
	globals *Environment
	env     *Environment
	locals  map[Expr]Resolution
	out     io.Writer
	log     *slog.Logger
}

func NewInterpreter(out io.Writer, logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	globals := NewEnvironment(nil)
	interp := &Interpreter{
		globals: globals,
		env:     globals,
		locals:  make(map[Expr]Resolution),
		out:     out,
		log:     logger,
	}

	defineBuiltins(interp)
	return interp
}

func (i *Interpreter) Globals() *Environment {
	return i.globals
}

// Bind records the resolver's verdict for a variable use.
func (i *Interpreter) Bind(expr Expr, res Resolution) {
	i.locals[expr] = res
}

// Interpret executes stmts in order and stops at the first runtime error.
// Globals defined before the error stay in place for later calls.
func (i *Interpreter) Interpret(stmts []Stmt) error {
	for _, stmt := range stmts {
		if _, err := i.execute(stmt); err != nil {
			i.env = i.globals
			return err
		}
	}

	return nil
}

func (i *Interpreter) execute(stmt Stmt) (completion, error) {
	switch s := stmt.(type) {
	case *ExprStmt:
		_, err := i.evaluate(s.Expression)
		return normal, err
	case *PrintStmt:
		val, err := i.evaluate(s.Expression)
		if err != nil {
			return normal, err
		}

		fmt.Fprintln(i.out, stringify(val))
		return normal, nil
	case *VariableDecl:
		var val Value
		if s.Initializer != nil {
			var err error
			if val, err = i.evaluate(s.Initializer); err != nil {
				return normal, err
			}
		}

		i.env.Define(s.Name.Lexeme, val)
		return normal, nil
	case *BlockStmt:
		return i.executeBlock(s.Statements, NewEnvironment(i.env))
	case *IfStmt:
		cond, err := i.evaluate(s.Condition)
		if err != nil {
			return normal, err
		}

		if isTruthy(cond) {
			return i.execute(s.ThenBranch)
		}

		if s.ElseBranch != nil {
			return i.execute(s.ElseBranch)
		}

		return normal, nil
	case *WhileStmt:
		for {
			cond, err := i.evaluate(s.Condition)
			if err != nil {
				return normal, err
			}

			if !isTruthy(cond) {
				return normal, nil
			}

			res, err := i.execute(s.Body)
			if err != nil || res.returned {
				return res, err
			}
		}
	case *FuncDecl:
		i.env.Define(s.Name.Lexeme, &Function{decl: s, closure: i.env})
		return normal, nil
	case *ReturnStmt:
		var val Value
		if s.Value != nil {
			var err error
			if val, err = i.evaluate(s.Value); err != nil {
				return normal, err
			}
		}

		return completion{returned: true, value: val}, nil
	default:
		panic(fmt.Sprintf("unexpected statement %T", stmt))
	}
}

// executeBlock runs stmts with env as the current environment and restores
// the previous one however the block is left.
func (i *Interpreter) executeBlock(stmts []Stmt, env *Environment) (completion, error) {
	prev := i.env
	i.env = env
	defer func() {
		i.env = prev
	}()

	for _, stmt := range stmts {
		res, err := i.execute(stmt)
		if err != nil || res.returned {
			return res, err
		}
	}

	return normal, nil
}

func (i *Interpreter) evaluate(expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Value, nil
	case *GroupingExpr:
		return i.evaluate(e.Expression)
	case *UnaryExpr:
		return i.unaryExpression(e)
	case *BinaryExpr:
		return i.binaryExpression(e)
	case *LogicalExpr:
		left, err := i.evaluate(e.Op1)
		if err != nil {
			return nil, err
		}

		if e.Operator.Typ == TokenOr {
			if isTruthy(left) {
				return left, nil
			}
		} else if !isTruthy(left) {
			return left, nil
		}

		return i.evaluate(e.Op2)
	case *Identifier:
		return i.lookUpVariable(e.Name, e)
	case *AssignExpr:
		val, err := i.evaluate(e.Value)
		if err != nil {
			return nil, err
		}

		if res, ok := i.locals[e]; ok && !res.Global {
			i.env.AssignAt(res.Distance, e.Name.Lexeme, val)
			return val, nil
		}

		if err := i.globals.Assign(e.Name, val); err != nil {
			return nil, err
		}

		return val, nil
	case *CallExpr:
		return i.functionCall(e)
	default:
		panic(fmt.Sprintf("unexpected expression %T", expr))
	}
}

func (i *Interpreter) lookUpVariable(name Token, expr Expr) (Value, error) {
	if res, ok := i.locals[expr]; ok && !res.Global {
		return i.env.GetAt(res.Distance, name.Lexeme), nil
	}

	return i.globals.Get(name)
}

func (i *Interpreter) unaryExpression(expr *UnaryExpr) (Value, error) {
	right, err := i.evaluate(expr.Operand)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Typ {
	case TokenBang:
		return !isTruthy(right), nil
	case TokenMinus:
		n, ok := right.(float64)
		if !ok {
			return nil, runtimeErrorf(TypeError, expr.Operator, "Operand must be a number.")
		}

		return -n, nil
	default:
		panic("unexpected unary operator: " + expr.Operator.Lexeme)
	}
}

func (i *Interpreter) binaryExpression(expr *BinaryExpr) (Value, error) {
	left, err := i.evaluate(expr.Op1)
	if err != nil {
		return nil, err
	}

	right, err := i.evaluate(expr.Op2)
	if err != nil {
		return nil, err
	}

	op := expr.Operator
	switch op.Typ {
	case TokenEqualEqual:
		return isEqual(left, right), nil
	case TokenBangEqual:
		return !isEqual(left, right), nil
	case TokenPlus:
		if l, ok := left.(string); ok {
			if r, ok := right.(string); ok {
				return l + r, nil
			}
		}

		if l, ok := left.(float64); ok {
			if r, ok := right.(float64); ok {
				return l + r, nil
			}
		}

		return nil, runtimeErrorf(TypeError, op, "Operands must be two numbers or two strings.")
	}

	l, lok := left.(float64)
	r, rok := right.(float64)
	if !lok || !rok {
		return nil, runtimeErrorf(TypeError, op, "Operands must be numbers.")
	}

	switch op.Typ {
	case TokenMinus:
		return l - r, nil
	case TokenMulti:
		return l * r, nil
	case TokenDiv:
		return l / r, nil
	case TokenGreater:
		return l > r, nil
	case TokenGreaterEqual:
		return l >= r, nil
	case TokenLess:
		return l < r, nil
	case TokenLessEqual:
		return l <= r, nil
	default:
		panic("unexpected binary operator: " + op.Lexeme)
	}
}

func (i *Interpreter) functionCall(expr *CallExpr) (Value, error) {
	callee, err := i.evaluate(expr.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, 0, len(expr.Args))
	for _, arg := range expr.Args {
		val, err := i.evaluate(arg)
		if err != nil {
			return nil, err
		}

		args = append(args, val)
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, runtimeErrorf(CallError, expr.Paren, "Can only call functions.")
	}

	if fn.Arity() != len(args) {
		return nil, runtimeErrorf(ArityError, expr.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}

	i.log.Debug("Function call",
		slog.String("function", fn.String()),
		slog.Int("argument-count", len(args)),
		slog.Int("line", expr.Paren.Line))

	val, err := fn.Call(i, args)
	if err != nil {
		var rtErr *RuntimeError
		if errors.As(err, &rtErr) {
			return nil, err
		}

		// Host failures from natives are reported at the call site.
		return nil, runtimeErrorf(CallError, expr.Paren, "%v", err)
	}

	return val, nil
}

// isTruthy treats nil and false as false and everything else as true.
func isTruthy(v Value) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	default:
		return true
	}
}

// isEqual compares values without conversion. Callables are equal only to
// themselves and NaN is equal to NaN.
func isEqual(a, b Value) bool {
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok && math.IsNaN(x) && math.IsNaN(y) {
			return true
		}
	}

	return a == b
}

func stringify(v Value) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		switch {
		case math.IsInf(val, 1):
			return "Infinity"
		case math.IsInf(val, -1):
			return "-Infinity"
		}

		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	case Callable:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
