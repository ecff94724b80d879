package glox

// AST is the output of one parser run. Statements that failed to parse are
// left out and described in Errors instead.
type AST struct {
	Filename   string
	Statements []Stmt
	Errors     []CompileError
}

// Expr is implemented by every expression node. The set is closed: passes
// switch over the concrete types below.
type Expr interface {
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	stmtNode()
}

type LiteralExpr struct {
	Value Value
}

type GroupingExpr struct {
	Expression Expr
}

type UnaryExpr struct {
	Operator Token
	Operand  Expr
}

type BinaryExpr struct {
	Op1      Expr
	Operator Token
	Op2      Expr
}

// LogicalExpr is an `and`/`or` expression. It is kept apart from BinaryExpr
// because its right operand is evaluated lazily.
type LogicalExpr struct {
	Op1      Expr
	Operator Token
	Op2      Expr
}

type Identifier struct {
	Name Token
}

type AssignExpr struct {
	Name  Token
	Value Expr
}

type CallExpr struct {
	Callee Expr
	Paren  Token // closing parenthesis, used to locate runtime errors
	Args   []Expr
}

type ExprStmt struct {
	Expression Expr
}

type PrintStmt struct {
	Expression Expr
}

type VariableDecl struct {
	Name        Token
	Initializer Expr // nil when absent
}

type BlockStmt struct {
	Statements []Stmt
}

type IfStmt struct {
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt // nil when absent
}

type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

type FuncDecl struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

type ReturnStmt struct {
	Keyword Token
	Value   Expr // nil when absent
}

func (*LiteralExpr) exprNode()  {}
func (*GroupingExpr) exprNode() {}
func (*UnaryExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*LogicalExpr) exprNode()  {}
func (*Identifier) exprNode()   {}
func (*AssignExpr) exprNode()   {}
func (*CallExpr) exprNode()     {}

func (*ExprStmt) stmtNode()     {}
func (*PrintStmt) stmtNode()    {}
func (*VariableDecl) stmtNode() {}
func (*BlockStmt) stmtNode()    {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*FuncDecl) stmtNode()     {}
func (*ReturnStmt) stmtNode()   {}
