package glox

// Resolution says where a variable use finds its binding at run time.
type Resolution struct {
	Global   bool
	Distance int // number of enclosing environments to skip; unused for globals
}

func Local(distance int) Resolution {
	return Resolution{Distance: distance}
}

var Global = Resolution{Global: true}

// Binder receives the resolution of every Identifier and AssignExpr.
type Binder interface {
	Bind(expr Expr, res Resolution)
}

type bindingState bool

const (
	declared bindingState = false
	defined  bindingState = true
)

// SymbolTable is one lexical scope seen by the resolver.
type SymbolTable struct {
	Entries map[string]bindingState
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Entries: make(map[string]bindingState),
	}
}

func (t *SymbolTable) Declare(name string) {
	t.Entries[name] = declared
}

func (t *SymbolTable) Define(name string) {
	t.Entries[name] = defined
}

func (t *SymbolTable) Get(name string) (bindingState, bool) {
	state, ok := t.Entries[name]
	return state, ok
}

type functionKind int

const (
	functionNone functionKind = iota
	functionBody
)

// Resolver computes the lexical distance of every variable use in one pass.
// Top level, blocks and function bodies each open a scope, matching the
// environments the interpreter creates.
type Resolver struct {
	binder  Binder
	scopes  []*SymbolTable
	current functionKind
	errors  []CompileError
}

func NewResolver(binder Binder) *Resolver {
	return &Resolver{binder: binder}
}

// Resolve walks stmts and returns the errors found. Resolutions are handed to
// the binder as they are computed.
func (r *Resolver) Resolve(stmts []Stmt) []CompileError {
	r.errors = nil
	r.current = functionNone

	r.beginScope()
	r.resolveStmts(stmts)
	r.endScope()

	return r.errors
}

func (r *Resolver) resolveStmts(stmts []Stmt) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()
	case *VariableDecl:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *FuncDecl:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s)
	case *ExprStmt:
		r.resolveExpr(s.Expression)
	case *PrintStmt:
		r.resolveExpr(s.Expression)
	case *IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}
	case *WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	case *ReturnStmt:
		if r.current == functionNone {
			r.errorf(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
	}
}

func (r *Resolver) resolveExpr(expr Expr) {
	switch e := expr.(type) {
	case *Identifier:
		if state, ok := r.innermost().Get(e.Name.Lexeme); ok && state == declared {
			r.errorf(e.Name, "Can't read local variable in its own initializer.")
		}
		r.resolveLocal(e, e.Name)
	case *AssignExpr:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *BinaryExpr:
		r.resolveExpr(e.Op1)
		r.resolveExpr(e.Op2)
	case *LogicalExpr:
		r.resolveExpr(e.Op1)
		r.resolveExpr(e.Op2)
	case *UnaryExpr:
		r.resolveExpr(e.Operand)
	case *GroupingExpr:
		r.resolveExpr(e.Expression)
	case *CallExpr:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	case *LiteralExpr:
	}
}

func (r *Resolver) resolveFunction(fn *FuncDecl) {
	enclosing := r.current
	r.current = functionBody
	defer func() {
		r.current = enclosing
	}()

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()
}

// resolveLocal binds expr to the innermost scope declaring name, or to the
// global environment when no scope does.
func (r *Resolver) resolveLocal(expr Expr, name Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i].Get(name.Lexeme); ok {
			r.binder.Bind(expr, Local(len(r.scopes)-1-i))
			return
		}
	}

	r.binder.Bind(expr, Global)
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, NewSymbolTable())
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) innermost() *SymbolTable {
	return r.scopes[len(r.scopes)-1]
}

func (r *Resolver) declare(name Token) {
	r.innermost().Declare(name.Lexeme)
}

func (r *Resolver) define(name Token) {
	r.innermost().Define(name.Lexeme)
}

func (r *Resolver) errorf(tok Token, msg string) {
	r.errors = append(r.errors, &ResolutionError{
		Token:   tok,
		Message: msg,
	})
}
