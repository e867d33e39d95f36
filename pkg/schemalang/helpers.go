package schemalang

import (
	"strconv"

	"github.com/leanderhang/bitpunch/pkg/util/source"
	"github.com/leanderhang/bitpunch/pkg/util/source/sexp"
)

func headSymbol(list *sexp.List) (string, bool) {
	if list.Len() == 0 {
		return "", false
	}

	sym := list.Get(0).AsSymbol()
	if sym == nil {
		return "", false
	}

	return sym.Value, true
}

func symbolAt(list *sexp.List, i int) (string, bool) {
	if i >= list.Len() {
		return "", false
	}

	sym := list.Get(i).AsSymbol()
	if sym == nil {
		return "", false
	}

	return sym.Value, true
}

func stringAt(list *sexp.List, i int) (string, bool) {
	if i >= list.Len() {
		return "", false
	}

	return asStringLiteral(list.Get(i))
}

func intAt(list *sexp.List, i int) (int64, bool) {
	sym, ok := symbolAt(list, i)
	if !ok {
		return 0, false
	}

	v, err := strconv.ParseInt(sym, 0, 64)

	return v, err == nil
}

func asStringLiteral(e sexp.SExp) (string, bool) {
	ss, ok := e.(*stringSymbol)
	if !ok {
		return "", false
	}

	return ss.Value, true
}

// syntaxErrorAt constructs a syntax error pointing at an arbitrary
// s-expression.  Since the parser discards token spans once a form is
// built, this reports the whole-source span; good enough for a schema
// language whose primary audience is its own test suite.
func syntaxErrorAt(srcfile *source.File, _ sexp.SExp, message string) error {
	return srcfile.SyntaxError(source.NewSpan(0, len(srcfile.Contents())), message)
}
