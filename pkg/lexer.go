package glox

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

//go:generate stringer -type=TokenType -trimprefix=Token
const (
	TokenError TokenType = iota
	TokenEOF
	TokenNumber
	TokenString
	TokenIdentifier
	TokenLineComment

	TokenOpenParentheses
	TokenCloseParentheses
	TokenOpenCurly
	TokenCloseCurly
	TokenComma
	TokenDot
	TokenMinus
	TokenPlus
	TokenSemicolon
	TokenDiv
	TokenMulti

	TokenBang
	TokenBangEqual
	TokenEqual
	TokenEqualEqual
	TokenGreater
	TokenGreaterEqual
	TokenLess
	TokenLessEqual

	TokenAnd
	TokenClass
	TokenElse
	TokenFalse
	TokenFor
	TokenFun
	TokenIf
	TokenNil
	TokenOr
	TokenPrint
	TokenReturn
	TokenSuper
	TokenThis
	TokenTrue
	TokenVar
	TokenWhile
)

const EOF rune = 0

var keywordTable = map[string]TokenType{
	"and":    TokenAnd,
	"class":  TokenClass,
	"else":   TokenElse,
	"false":  TokenFalse,
	"for":    TokenFor,
	"fun":    TokenFun,
	"if":     TokenIf,
	"nil":    TokenNil,
	"or":     TokenOr,
	"print":  TokenPrint,
	"return": TokenReturn,
	"super":  TokenSuper,
	"this":   TokenThis,
	"true":   TokenTrue,
	"var":    TokenVar,
	"while":  TokenWhile,
}

var operatorTable = map[string]TokenType{
	"(":  TokenOpenParentheses,
	")":  TokenCloseParentheses,
	"{":  TokenOpenCurly,
	"}":  TokenCloseCurly,
	",":  TokenComma,
	".":  TokenDot,
	"-":  TokenMinus,
	"+":  TokenPlus,
	";":  TokenSemicolon,
	"/":  TokenDiv,
	"*":  TokenMulti,
	"!":  TokenBang,
	"!=": TokenBangEqual,
	"=":  TokenEqual,
	"==": TokenEqualEqual,
	">":  TokenGreater,
	">=": TokenGreaterEqual,
	"<":  TokenLess,
	"<=": TokenLessEqual,
	"//": TokenLineComment,
}

// Token is a single lexical unit. Literal holds the float64 or string value of
// number and string tokens and is nil otherwise.
type Token struct {
	Typ     TokenType
	Lexeme  string
	Literal interface{}
	Line    int
}

func (t Token) isValid() bool {
	return t.Typ != TokenEOF
}

func (t Token) isComment() bool {
	return t.Typ == TokenLineComment
}

// Tokenizer is the token source the parser pulls from.
type Tokenizer interface {
	Do()
	Get() Token
	GetFilename() string
}

type Lexer struct {
	filename string
	reader   *bufio.Reader
	done     chan Token
	line     int
}

func NewLexer(reader io.Reader) *Lexer {
	return NewNamedLexer("", reader)
}

func NewNamedLexer(filename string, reader io.Reader) *Lexer {
	return &Lexer{
		filename: filename,
		reader:   bufio.NewReader(reader),
		done:     make(chan Token),
		line:     1,
	}
}

func (l *Lexer) Chan() chan Token {
	return l.done
}

func (l *Lexer) GetFilename() string {
	return l.filename
}

// Get returns the next token. Once the lexer is drained it keeps returning EOF.
func (l *Lexer) Get() Token {
	tok, ok := <-l.done
	if !ok {
		return Token{Typ: TokenEOF, Line: l.line}
	}

	return tok
}

func (l *Lexer) Do() {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	close(l.done)
}

// RunBlocking scans the whole input. Error tokens are left out of the result and
// joined into the returned error; the EOF token is not included.
func (l *Lexer) RunBlocking() ([]Token, error) {
	go l.Do()

	var tokens []Token
	var errs []error
	for t := range l.Chan() {
		switch t.Typ {
		case TokenEOF:
			continue
		case TokenError:
			errs = append(errs, fmt.Errorf("[line %d] Error: %s", t.Line, t.Lexeme))
		default:
			tokens = append(tokens, t)
		}
	}

	return tokens, errors.Join(errs...)
}

func defaultState(l *Lexer) stateFunc {
	for {
		switch r := l.peek(); {
		case r == EOF:
			return l.emmitValue(TokenEOF, "", nil)
		case r == '\n':
			l.next()
			l.line++
			continue
		case unicode.IsSpace(r):
			l.next()
			continue
		case isDigit(r):
			return numberState
		case r == '"':
			return stringState
		case r == '_' || unicode.IsLetter(r):
			return identifierState
		default:
			return operatorState
		}
	}
}

func numberState(l *Lexer) stateFunc {
	var num strings.Builder
	for r := l.peek(); isDigit(r); r = l.peek() {
		num.WriteRune(l.next())
	}

	// A fractional part needs at least one digit after the dot.
	if b, err := l.reader.Peek(2); err == nil && b[0] == '.' && isDigit(rune(b[1])) {
		num.WriteRune(l.next())
		for r := l.peek(); isDigit(r); r = l.peek() {
			num.WriteRune(l.next())
		}
	}

	v, err := strconv.ParseFloat(num.String(), 64)
	if err != nil {
		return l.errorf("invalid number '%s'", num.String())
	}

	return l.emmitValue(TokenNumber, num.String(), v)
}

func stringState(l *Lexer) stateFunc {
	start := l.line
	l.next() // Skip the leading double-quote

	var str strings.Builder
	for r := l.next(); r != '"'; r = l.next() {
		if r == EOF {
			l.done <- Token{Typ: TokenError, Lexeme: "Unterminated string.", Line: start}
			return l.emmitValue(TokenEOF, "", nil)
		}

		if r == '\n' {
			l.line++
		}

		str.WriteRune(r)
	}

	return l.emmitValue(TokenString, `"`+str.String()+`"`, str.String())
}

func identifierState(l *Lexer) stateFunc {
	var id strings.Builder
	for r := l.peek(); r == '_' || unicode.IsLetter(r) || isDigit(r); r = l.peek() {
		id.WriteRune(l.next())
	}

	if t, ok := keywordTable[id.String()]; ok {
		return l.emmitValue(t, id.String(), nil)
	}

	return l.emmitValue(TokenIdentifier, id.String(), nil)
}

func operatorState(l *Lexer) stateFunc {
	r := l.next()
	if next := l.peek(); next != EOF { // Some operators can be two runes
		op := string(r) + string(next)
		if tok, ok := operatorTable[op]; ok {
			l.next() // Skip

			if tok == TokenLineComment {
				return lineCommentState
			}

			return l.emmitValue(tok, op, nil)
		}
	}

	if tok, ok := operatorTable[string(r)]; ok {
		return l.emmitValue(tok, string(r), nil)
	}

	return l.errorf("Unexpected character.")
}

func lineCommentState(l *Lexer) stateFunc {
	var id strings.Builder
	for r := l.peek(); r != '\n' && r != EOF; r = l.peek() {
		id.WriteRune(l.next())
	}

	return l.emmitValue(TokenLineComment, id.String(), nil)
}

// errorf reports a lexical error and resumes scanning.
func (l *Lexer) errorf(format string, args ...interface{}) stateFunc {
	l.done <- Token{
		Typ:    TokenError,
		Lexeme: fmt.Sprintf(format, args...),
		Line:   l.line,
	}

	return defaultState
}

func (l *Lexer) emmitValue(t TokenType, lexeme string, literal interface{}) stateFunc {
	l.done <- Token{
		Typ:     t,
		Lexeme:  lexeme,
		Literal: literal,
		Line:    l.line,
	}

	if t == TokenEOF {
		return nil
	}

	return defaultState
}

func (l *Lexer) peek() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		return EOF
	}
	_ = l.reader.UnreadRune()

	return r
}

func (l *Lexer) next() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		return EOF
	}

	return r
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// TokenSlice feeds an already scanned token sequence to the parser.
type TokenSlice struct {
	buf []Token
	pos int
}

func NewTokenSlice(toks []Token) *TokenSlice {
	return &TokenSlice{buf: toks}
}

func (s *TokenSlice) Do() {}

func (s *TokenSlice) Get() Token {
	if len(s.buf) <= s.pos {
		line := 1
		if len(s.buf) > 0 {
			line = s.buf[len(s.buf)-1].Line
		}

		return Token{Typ: TokenEOF, Line: line}
	}

	tok := s.buf[s.pos]
	s.pos++

	return tok
}

func (s *TokenSlice) GetFilename() string {
	return ""
}
