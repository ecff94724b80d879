package glox

import "strings"

// Print renders stmts in a parenthesized prefix form, one statement per line.
// It is meant for debugging the parser.
func Print(stmts []Stmt) string {
	var str strings.Builder
	for _, stmt := range stmts {
		str.WriteString(printStmt(stmt))
		str.WriteString("\n")
	}

	return str.String()
}

func printStmt(stmt Stmt) string {
	switch s := stmt.(type) {
	case *ExprStmt:
		return parenthesize(";", printExpr(s.Expression))
	case *PrintStmt:
		return parenthesize("print", printExpr(s.Expression))
	case *VariableDecl:
		if s.Initializer == nil {
			return parenthesize("var", s.Name.Lexeme)
		}

		return parenthesize("var", s.Name.Lexeme, printExpr(s.Initializer))
	case *BlockStmt:
		return parenthesize("block", printStmts(s.Statements)...)
	case *IfStmt:
		if s.ElseBranch == nil {
			return parenthesize("if", printExpr(s.Condition), printStmt(s.ThenBranch))
		}

		return parenthesize("if", printExpr(s.Condition), printStmt(s.ThenBranch), printStmt(s.ElseBranch))
	case *WhileStmt:
		return parenthesize("while", printExpr(s.Condition), printStmt(s.Body))
	case *FuncDecl:
		params := make([]string, 0, len(s.Params))
		for _, param := range s.Params {
			params = append(params, param.Lexeme)
		}

		parts := append([]string{s.Name.Lexeme, "(" + strings.Join(params, " ") + ")"}, printStmts(s.Body)...)
		return parenthesize("fun", parts...)
	case *ReturnStmt:
		if s.Value == nil {
			return parenthesize("return")
		}

		return parenthesize("return", printExpr(s.Value))
	default:
		return "<?>"
	}
}

func printStmts(stmts []Stmt) []string {
	out := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, printStmt(stmt))
	}

	return out
}

func printExpr(expr Expr) string {
	switch e := expr.(type) {
	case *LiteralExpr:
		if s, ok := e.Value.(string); ok {
			return `"` + s + `"`
		}

		return stringify(e.Value)
	case *GroupingExpr:
		return parenthesize("group", printExpr(e.Expression))
	case *UnaryExpr:
		return parenthesize(e.Operator.Lexeme, printExpr(e.Operand))
	case *BinaryExpr:
		return parenthesize(e.Operator.Lexeme, printExpr(e.Op1), printExpr(e.Op2))
	case *LogicalExpr:
		return parenthesize(e.Operator.Lexeme, printExpr(e.Op1), printExpr(e.Op2))
	case *Identifier:
		return e.Name.Lexeme
	case *AssignExpr:
		return parenthesize("=", e.Name.Lexeme, printExpr(e.Value))
	case *CallExpr:
		parts := []string{printExpr(e.Callee)}
		for _, arg := range e.Args {
			parts = append(parts, printExpr(arg))
		}

		return parenthesize("call", parts...)
	default:
		return "<?>"
	}
}

func parenthesize(name string, parts ...string) string {
	if len(parts) == 0 {
		return "(" + name + ")"
	}

	return "(" + name + " " + strings.Join(parts, " ") + ")"
}
