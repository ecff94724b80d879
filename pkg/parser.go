package glox

import "fmt"

const maxArgs = 255

type Parser struct {
	filename  string
	tokenizer Tokenizer
	buf       *Token
	prev      Token
	errors    []CompileError
}

// bailout unwinds the parser to the enclosing declaration after a fatal
// syntax error. It never leaves the parser.
type bailout struct{}

func NewParser(tokenizer Tokenizer) *Parser {
	return &Parser{
		tokenizer: tokenizer,
		filename:  tokenizer.GetFilename(),
	}
}

// ParseTokens parses an already scanned token sequence.
func ParseTokens(toks []Token) *AST {
	return NewParser(NewTokenSlice(toks)).Run()
}

func (p *Parser) GetFilename() string {
	return p.filename
}

// Run parses declarations until the end of input. A declaration that fails to
// parse is reported and skipped, and parsing resumes at the next statement
// boundary.
func (p *Parser) Run() *AST {
	go p.tokenizer.Do()

	ast := &AST{Filename: p.filename}

	for p.peek().isValid() {
		if stmt := p.declaration(); stmt != nil {
			ast.Statements = append(ast.Statements, stmt)
		}
	}

	ast.Errors = p.errors
	return ast
}

func (p *Parser) peek() Token {
	if p.buf == nil {
		temp := p.fetch()
		p.buf = &temp
	}

	return *p.buf
}

func (p *Parser) next() Token {
	tok := p.peek()
	if tok.isValid() {
		// EOF stays buffered since no more valid tokens are expected
		p.buf = nil
		p.prev = tok
	}

	return tok
}

// fetch pulls the next meaningful token, dropping comments and reporting scan
// errors on the way.
func (p *Parser) fetch() Token {
	for {
		tok := p.tokenizer.Get()
		switch {
		case tok.isComment():
			continue
		case tok.Typ == TokenError:
			p.errors = append(p.errors, &SyntaxError{Line: tok.Line, Message: tok.Lexeme})
			continue
		}

		return tok
	}
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Typ == typ
}

func (p *Parser) match(types ...TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.next()
			return true
		}
	}

	return false
}

func (p *Parser) expect(typ TokenType, format string, args ...interface{}) Token {
	if p.check(typ) {
		return p.next()
	}

	p.errorf(p.peek(), format, args...)
	return Token{} // Unreachable
}

// report records a syntax error without abandoning the current statement.
func (p *Parser) report(tok Token, format string, args ...interface{}) {
	p.errors = append(p.errors, &SyntaxError{
		Line:    tok.Line,
		Where:   locate(tok),
		Message: fmt.Sprintf(format, args...),
	})
}

// errorf records a syntax error and abandons the current statement.
func (p *Parser) errorf(tok Token, format string, args ...interface{}) {
	p.report(tok, format, args...)
	panic(bailout{})
}

// synchronize discards tokens until a probable statement boundary.
func (p *Parser) synchronize() {
	p.next()

	for p.peek().isValid() {
		if p.prev.Typ == TokenSemicolon {
			return
		}

		switch p.peek().Typ {
		case TokenClass, TokenFun, TokenVar, TokenFor, TokenIf, TokenWhile, TokenPrint, TokenReturn:
			return
		}

		p.next()
	}
}

func (p *Parser) declaration() (stmt Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}

			p.synchronize()
			stmt = nil
		}
	}()

	switch {
	case p.match(TokenFun):
		return p.funcDecl("function")
	case p.match(TokenVar):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) funcDecl(kind string) Stmt {
	name := p.expect(TokenIdentifier, "Expect %s name.", kind)
	p.expect(TokenOpenParentheses, "Expect '(' after %s name.", kind)

	var params []Token
	if !p.check(TokenCloseParentheses) {
		for {
			if len(params) >= maxArgs {
				p.report(p.peek(), "Can't have more than %d parameters.", maxArgs)
			}

			params = append(params, p.expect(TokenIdentifier, "Expect parameter name."))

			if !p.match(TokenComma) {
				break
			}
		}
	}
	p.expect(TokenCloseParentheses, "Expect ')' after parameters.")

	p.expect(TokenOpenCurly, "Expect '{' before %s body.", kind)
	return &FuncDecl{
		Name:   name,
		Params: params,
		Body:   p.blockStmt(),
	}
}

func (p *Parser) varDecl() Stmt {
	name := p.expect(TokenIdentifier, "Expect variable name.")

	var initializer Expr
	if p.match(TokenEqual) {
		initializer = p.expr()
	}

	p.expect(TokenSemicolon, "Expect ';' after variable declaration.")
	return &VariableDecl{
		Name:        name,
		Initializer: initializer,
	}
}

func (p *Parser) statement() Stmt {
	switch {
	case p.match(TokenIf):
		return p.ifStmt()
	case p.match(TokenWhile):
		return p.whileStmt()
	case p.match(TokenFor):
		return p.forStmt()
	case p.match(TokenPrint):
		return p.printStmt()
	case p.match(TokenReturn):
		return p.returnStmt()
	case p.match(TokenOpenCurly):
		return &BlockStmt{Statements: p.blockStmt()}
	default:
		return p.exprStmt()
	}
}

func (p *Parser) ifStmt() Stmt {
	p.expect(TokenOpenParentheses, "Expect '(' after 'if'.")
	condition := p.expr()
	p.expect(TokenCloseParentheses, "Expect ')' after if condition.")

	stmt := &IfStmt{
		Condition:  condition,
		ThenBranch: p.statement(),
	}

	if p.match(TokenElse) {
		stmt.ElseBranch = p.statement()
	}

	return stmt
}

func (p *Parser) whileStmt() Stmt {
	p.expect(TokenOpenParentheses, "Expect '(' after 'while'.")
	condition := p.expr()
	p.expect(TokenCloseParentheses, "Expect ')' after condition.")

	return &WhileStmt{
		Condition: condition,
		Body:      p.statement(),
	}
}

// forStmt desugars
//
//	for (init; cond; incr) body
//
// into
//
//	{ init; while (cond) { body; incr; } }
//
// so the initializer gets one scope enclosing the whole loop.
func (p *Parser) forStmt() Stmt {
	p.expect(TokenOpenParentheses, "Expect '(' after 'for'.")

	var initializer Stmt
	switch {
	case p.match(TokenSemicolon):
	case p.match(TokenVar):
		initializer = p.varDecl()
	default:
		initializer = p.exprStmt()
	}

	var condition Expr
	if !p.check(TokenSemicolon) {
		condition = p.expr()
	}
	p.expect(TokenSemicolon, "Expect ';' after loop condition.")

	var increment Expr
	if !p.check(TokenCloseParentheses) {
		increment = p.expr()
	}
	p.expect(TokenCloseParentheses, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &BlockStmt{Statements: []Stmt{body, &ExprStmt{Expression: increment}}}
	}

	if condition == nil {
		condition = &LiteralExpr{Value: true}
	}

	body = &WhileStmt{Condition: condition, Body: body}

	if initializer != nil {
		body = &BlockStmt{Statements: []Stmt{initializer, body}}
	}

	return body
}

func (p *Parser) printStmt() Stmt {
	value := p.expr()
	p.expect(TokenSemicolon, "Expect ';' after value.")

	return &PrintStmt{Expression: value}
}

func (p *Parser) returnStmt() Stmt {
	keyword := p.prev

	var value Expr
	if !p.check(TokenSemicolon) {
		value = p.expr()
	}
	p.expect(TokenSemicolon, "Expect ';' after return value.")

	return &ReturnStmt{
		Keyword: keyword,
		Value:   value,
	}
}

func (p *Parser) exprStmt() Stmt {
	expr := p.expr()
	p.expect(TokenSemicolon, "Expect ';' after expression.")

	return &ExprStmt{Expression: expr}
}

// blockStmt parses declarations up to the closing brace. The opening brace has
// already been consumed.
func (p *Parser) blockStmt() []Stmt {
	var stmts []Stmt
	for tok := p.peek(); tok.isValid() && tok.Typ != TokenCloseCurly; tok = p.peek() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	p.expect(TokenCloseCurly, "Expect '}' after block.")
	return stmts
}

func (p *Parser) expr() Expr {
	return p.assignment()
}

// assignment is right associative and only accepts an identifier target.
func (p *Parser) assignment() Expr {
	expr := p.orExpr()

	if p.match(TokenEqual) {
		equals := p.prev
		value := p.assignment()

		if id, ok := expr.(*Identifier); ok {
			return &AssignExpr{
				Name:  id.Name,
				Value: value,
			}
		}

		p.report(equals, "Invalid assignment target.")
	}

	return expr
}

func (p *Parser) orExpr() Expr {
	lhs := p.andExpr()

	for p.match(TokenOr) {
		op := p.prev
		lhs = &LogicalExpr{
			Op1:      lhs,
			Operator: op,
			Op2:      p.andExpr(),
		}
	}

	return lhs
}

func (p *Parser) andExpr() Expr {
	lhs := p.equalityExpr()

	for p.match(TokenAnd) {
		op := p.prev
		lhs = &LogicalExpr{
			Op1:      lhs,
			Operator: op,
			Op2:      p.equalityExpr(),
		}
	}

	return lhs
}

// binaryLevel parses a left associative chain of operand (op operand)*.
func (p *Parser) binaryLevel(operand func() Expr, ops ...TokenType) Expr {
	lhs := operand()

	for p.match(ops...) {
		op := p.prev
		lhs = &BinaryExpr{
			Op1:      lhs,
			Operator: op,
			Op2:      operand(),
		}
	}

	return lhs
}

func (p *Parser) equalityExpr() Expr {
	return p.binaryLevel(p.comparisonExpr, TokenBangEqual, TokenEqualEqual)
}

func (p *Parser) comparisonExpr() Expr {
	return p.binaryLevel(p.additiveExpr, TokenGreater, TokenGreaterEqual, TokenLess, TokenLessEqual)
}

func (p *Parser) additiveExpr() Expr {
	return p.binaryLevel(p.multiplicativeExpr, TokenMinus, TokenPlus)
}

func (p *Parser) multiplicativeExpr() Expr {
	return p.binaryLevel(p.unaryExpr, TokenDiv, TokenMulti)
}

func (p *Parser) unaryExpr() Expr {
	if p.match(TokenBang, TokenMinus) {
		op := p.prev

		return &UnaryExpr{
			Operator: op,
			Operand:  p.unaryExpr(),
		}
	}

	return p.callExpr()
}

func (p *Parser) callExpr() Expr {
	expr := p.primary()

	for p.match(TokenOpenParentheses) {
		expr = p.finishCall(expr)
	}

	return expr
}

func (p *Parser) finishCall(callee Expr) Expr {
	var args []Expr
	if !p.check(TokenCloseParentheses) {
		for {
			if len(args) >= maxArgs {
				p.report(p.peek(), "Can't have more than %d arguments.", maxArgs)
			}

			args = append(args, p.expr())

			if !p.match(TokenComma) {
				break
			}
		}
	}

	paren := p.expect(TokenCloseParentheses, "Expect ')' after arguments.")

	return &CallExpr{
		Callee: callee,
		Paren:  paren,
		Args:   args,
	}
}

func (p *Parser) primary() Expr {
	switch tok := p.peek(); tok.Typ {
	case TokenFalse:
		p.next()
		return &LiteralExpr{Value: false}
	case TokenTrue:
		p.next()
		return &LiteralExpr{Value: true}
	case TokenNil:
		p.next()
		return &LiteralExpr{Value: nil}
	case TokenNumber, TokenString:
		p.next()
		return &LiteralExpr{Value: tok.Literal}
	case TokenIdentifier:
		p.next()
		return &Identifier{Name: tok}
	case TokenOpenParentheses:
		return p.parenthesisedExpression()
	}

	p.errorf(p.peek(), "Expect expression.")
	return nil // Unreachable
}

func (p *Parser) parenthesisedExpression() Expr {
	p.next() // Skip (

	exp := p.expr()
	p.expect(TokenCloseParentheses, "Expect ')' after expression.")

	return &GroupingExpr{Expression: exp}
}
