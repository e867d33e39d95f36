package schemalang

import (
	"fmt"

	"github.com/leanderhang/bitpunch/pkg/ast"
	"github.com/leanderhang/bitpunch/pkg/util/source"
	"github.com/leanderhang/bitpunch/pkg/util/source/sexp"
)

// Compile is the canonical schema-ingestion entry point that
// schema_create_from_{path,buffer,string} all funnel through: text in,
// compiled *ast.Schema out, or a structured syntax error.  There is no
// schema-from-file-descriptor entry point.
func Compile(name string, text []byte) (*ast.Schema, error) {
	srcfile := source.NewSourceFile(name, text)

	tokens, err := lex(srcfile)
	if err != nil {
		return nil, err
	}

	forms, err := newParser(srcfile, tokens).parseAll()
	if err != nil {
		return nil, err
	}

	if len(forms) != 1 {
		return nil, srcfile.SyntaxError(source.NewSpan(0, len(text)), "expected exactly one top-level filter form")
	}

	root, err := translateFilter(srcfile, forms[0])
	if err != nil {
		return nil, err
	}

	return &ast.Schema{Root: root}, nil
}

// CompileExpr compiles a single standalone expression, as used by
// Board.AddExpr / Board.CompileExpr.
func CompileExpr(name string, text []byte) (ast.Expr, error) {
	srcfile := source.NewSourceFile(name, text)

	tokens, err := lex(srcfile)
	if err != nil {
		return nil, err
	}

	forms, err := newParser(srcfile, tokens).parseAll()
	if err != nil {
		return nil, err
	}

	if len(forms) != 1 {
		return nil, srcfile.SyntaxError(source.NewSpan(0, len(text)), "expected exactly one expression")
	}

	return translateExpr(srcfile, forms[0])
}

func translateFilter(srcfile *source.File, form sexp.SExp) (ast.Filter, error) {
	if sym := form.AsSymbol(); sym != nil {
		// A bare symbol filter form is a reference to a board item.
		return ast.Reference{Name: sym.Value}, nil
	}

	list := form.AsList()
	if list == nil || list.Len() == 0 {
		return nil, syntaxErrorAt(srcfile, form, "expected a filter form")
	}

	head, ok := headSymbol(list)
	if !ok {
		return nil, syntaxErrorAt(srcfile, form, "expected filter keyword")
	}

	switch head {
	case "integer":
		return translateInteger(srcfile, list)
	case "boolean":
		return ast.Boolean{}, nil
	case "string":
		return translateString(srcfile, list)
	case "bytes":
		return ast.BytesFilter{}, nil
	case "struct":
		return translateStruct(srcfile, list)
	case "array":
		return translateArray(srcfile, list)
	case "chain":
		return translateChain(srcfile, list)
	case "base64":
		return ast.Base64{}, nil
	case "ref":
		if list.Len() != 2 {
			return nil, syntaxErrorAt(srcfile, form, "(ref name) takes exactly one argument")
		}

		name, ok := symbolAt(list, 1)
		if !ok {
			return nil, syntaxErrorAt(srcfile, form, "(ref name) expects a symbol")
		}

		return ast.Reference{Name: name}, nil
	default:
		return nil, syntaxErrorAt(srcfile, form, fmt.Sprintf("unknown filter keyword %q", head))
	}
}

func translateInteger(srcfile *source.File, list *sexp.List) (ast.Filter, error) {
	if list.Len() < 3 {
		return nil, syntaxErrorAt(srcfile, list, "(integer width signed|unsigned [le|be]) requires at least 2 arguments")
	}

	width, ok := intAt(list, 1)
	if !ok {
		return nil, syntaxErrorAt(srcfile, list, "integer width must be an integer literal")
	}

	sign, ok := symbolAt(list, 2)
	if !ok {
		return nil, syntaxErrorAt(srcfile, list, "integer signedness must be `signed` or `unsigned`")
	}

	bigEndian := true

	if list.Len() >= 4 {
		endian, ok := symbolAt(list, 3)
		if ok && endian == "le" {
			bigEndian = false
		}
	}

	return ast.Integer{Width: int(width), Signed: sign == "signed", BigEndian: bigEndian}, nil
}

func translateString(srcfile *source.File, list *sexp.List) (ast.Filter, error) {
	if list.Len() != 2 {
		return nil, syntaxErrorAt(srcfile, list, "(string (boundary \"...\")) requires one sub-form")
	}

	sub := list.Get(1).AsList()
	if sub == nil || sub.Len() != 2 {
		return nil, syntaxErrorAt(srcfile, list, "expected (boundary \"...\")")
	}

	head, ok := headSymbol(sub)
	if !ok || head != "boundary" {
		return nil, syntaxErrorAt(srcfile, list, "expected (boundary \"...\")")
	}

	boundary, ok := stringAt(sub, 1)
	if !ok {
		return nil, syntaxErrorAt(srcfile, list, "boundary must be a string literal")
	}

	return ast.StringFilter{Boundary: []byte(boundary)}, nil
}

func translateStruct(srcfile *source.File, list *sexp.List) (ast.Filter, error) {
	var fields []*ast.Field

	for i := 1; i < list.Len(); i++ {
		fieldForm := list.Get(i).AsList()
		if fieldForm == nil {
			return nil, syntaxErrorAt(srcfile, list, "expected (field ...) form")
		}

		field, err := translateFieldForm(srcfile, fieldForm)
		if err != nil {
			return nil, err
		}

		fields = append(fields, field)
	}

	return ast.Struct{Fields: fields}, nil
}

func translateFieldForm(srcfile *source.File, form *sexp.List) (*ast.Field, error) {
	head, ok := headSymbol(form)
	if !ok || head != "field" || form.Len() < 3 {
		return nil, syntaxErrorAt(srcfile, form, "expected (field name filter ...)")
	}

	name, ok := symbolAt(form, 1)
	if !ok {
		return nil, syntaxErrorAt(srcfile, form, "field name must be a symbol")
	}

	filterNode, err := translateFilter(srcfile, form.Get(2))
	if err != nil {
		return nil, err
	}

	field := &ast.Field{Name: name, Anonymous: name == "_", Filter: filterNode}

	for i := 3; i < form.Len(); i++ {
		opt := form.Get(i).AsList()
		if opt == nil {
			return nil, syntaxErrorAt(srcfile, form, "expected field option form")
		}

		optHead, ok := headSymbol(opt)
		if !ok {
			return nil, syntaxErrorAt(srcfile, form, "expected field option keyword")
		}

		switch optHead {
		case "size":
			sizeExpr, err := translateExpr(srcfile, opt.Get(1))
			if err != nil {
				return nil, err
			}

			field.Size = sizeExpr
		case "if":
			condExpr, err := translateExpr(srcfile, opt.Get(1))
			if err != nil {
				return nil, err
			}

			field.Cond = condExpr
		case "header":
			field.Header = true
		case "trailer":
			field.Trailer = true
		case "hidden":
			field.Hidden = true
		default:
			return nil, syntaxErrorAt(srcfile, form, fmt.Sprintf("unknown field option %q", optHead))
		}
	}

	return field, nil
}

func translateArray(srcfile *source.File, list *sexp.List) (ast.Filter, error) {
	if list.Len() < 2 {
		return nil, syntaxErrorAt(srcfile, list, "(array item [count]) requires an item filter")
	}

	item, err := translateFilter(srcfile, list.Get(1))
	if err != nil {
		return nil, err
	}

	arr := ast.Array{Item: item}

	if list.Len() >= 3 {
		count, err := translateExpr(srcfile, list.Get(2))
		if err != nil {
			return nil, err
		}

		arr.Count = count
	}

	return arr, nil
}

func translateChain(srcfile *source.File, list *sexp.List) (ast.Filter, error) {
	var stages []ast.Filter

	for i := 1; i < list.Len(); i++ {
		stage, err := translateFilter(srcfile, list.Get(i))
		if err != nil {
			return nil, err
		}

		stages = append(stages, stage)
	}

	return ast.Chain{Stages: stages}, nil
}
