package test

import (
	"math/rand"
	"strings"
)

const validTokens = "fun;main;(;);{;};\"this is a string\";\"this is a longer string containing a bunch of text: Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.\";\"\";+;-;*;/;=;==;!=;<=;>=;!;and;or;var;print;return;nil;true;false;123;3.25;counter;//comment\n;\n"

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}
