package parser

import (
	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/token"
)

func (p *Parser) parseModule() *ast.Module {
	if !p.curIs(token.MODULE) {
		p.fail(diagnostics.ErrP002, p.cur(), "expected module header 'module <Name> where', found %s", p.cur().Describe())
	}
	mod := &ast.Module{Loc: p.next().Loc, File: p.file}
	mod.Name = p.expect(token.TYPE_IDENT).Lexeme
	if p.curIs(token.LPAREN) {
		mod.Exports = p.parseItemList()
	}
	p.expect(token.WHERE)
	p.expect(token.V_LBRACE)
	for !p.curIs(token.V_RBRACE) {
		p.parseTopLevel(mod)
		if !p.accept(token.V_SEMI) {
			break
		}
	}
	p.expect(token.V_RBRACE)
	p.expect(token.EOF)
	return mod
}

func (p *Parser) parseTopLevel(mod *ast.Module) {
	switch {
	case p.curIs(token.IMPORT):
		mod.Imports = append(mod.Imports, p.parseImport())
	case p.curIs(token.DATA):
		mod.Data = append(mod.Data, p.parseData())
	case p.curIs(token.IDENT) && p.peekIs(token.DCOLON):
		mod.Signatures = append(mod.Signatures, p.parseSignature())
	case p.curIs(token.IDENT):
		mod.Functions = append(mod.Functions, p.parseFunction())
	default:
		p.fail(diagnostics.ErrP006, p.cur(), "expected import, data, signature or function definition, found %s", p.cur().Describe())
	}
}

// parseItemList parses `(a, T, T(..))` for export and import lists.
func (p *Parser) parseItemList() []*ast.ExportItem {
	p.expect(token.LPAREN)
	items := []*ast.ExportItem{}
	for !p.curIs(token.RPAREN) {
		tok := p.expect(token.IDENT, token.TYPE_IDENT)
		item := &ast.ExportItem{Loc: tok.Loc, Name: tok.Lexeme}
		if tok.Type == token.TYPE_IDENT && p.curIs(token.LPAREN) && p.peekIs(token.DOTDOT) {
			p.next()
			p.next()
			p.expect(token.RPAREN)
			item.Members = true
		}
		items = append(items, item)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return items
}

func (p *Parser) parseImport() *ast.Import {
	imp := &ast.Import{Loc: p.next().Loc}
	imp.Module = p.expect(token.TYPE_IDENT).Lexeme
	switch {
	case p.curIs(token.LPAREN):
		imp.Kind = ast.ImportList
		imp.Items = p.parseItemList()
	case p.accept(token.HIDING):
		imp.Kind = ast.ImportHiding
		imp.Items = p.parseItemList()
	}
	if p.accept(token.AS) {
		imp.Alias = p.expect(token.TYPE_IDENT).Lexeme
	}
	return imp
}

func (p *Parser) parseData() ast.DataDefinition {
	start := p.next()
	name := p.expect(token.TYPE_IDENT)
	var params []string
	for p.curIs(token.IDENT) {
		params = append(params, p.next().Lexeme)
	}
	p.expect(token.ASSIGN)

	switch {
	case p.curIs(token.EXTERN):
		p.next()
		if p.curIs(token.DERIVING) {
			p.fail(diagnostics.ErrP006, p.cur(), "extern data %s cannot derive classes", name.Lexeme)
		}
		return &ast.RecordDef{Loc: start.Loc, Name: name.Lexeme, TypeParams: params, External: true}
	case p.curIs(token.LBRACE):
		rec := &ast.RecordDef{Loc: start.Loc, Name: name.Lexeme, TypeParams: params}
		p.next()
		for !p.curIs(token.RBRACE) {
			fieldTok := p.expect(token.IDENT)
			p.expect(token.DCOLON)
			rec.Fields = append(rec.Fields, &ast.RecordField{Loc: fieldTok.Loc, Name: fieldTok.Lexeme, Type: p.parseType()})
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACE)
		rec.Derived = p.parseDeriving()
		return rec
	}

	adt := &ast.AdtDef{Loc: start.Loc, Name: name.Lexeme, TypeParams: params}
	for {
		vtok := p.expect(token.TYPE_IDENT)
		v := &ast.Variant{Loc: vtok.Loc, Name: vtok.Lexeme}
		for p.startsTypeAtom() {
			v.Fields = append(v.Fields, p.parseTypeAtom())
		}
		adt.Variants = append(adt.Variants, v)
		if !p.accept(token.PIPE) {
			break
		}
	}
	adt.Derived = p.parseDeriving()
	return adt
}

func (p *Parser) parseDeriving() []ast.DerivedClass {
	if !p.accept(token.DERIVING) {
		return nil
	}
	var classes []ast.DerivedClass
	if !p.accept(token.LPAREN) {
		tok := p.expect(token.TYPE_IDENT)
		return []ast.DerivedClass{{Loc: tok.Loc, Name: tok.Lexeme}}
	}
	for !p.curIs(token.RPAREN) {
		tok := p.expect(token.TYPE_IDENT)
		classes = append(classes, ast.DerivedClass{Loc: tok.Loc, Name: tok.Lexeme})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return classes
}

func (p *Parser) parseSignature() *ast.FunctionSignature {
	name := p.next()
	p.expect(token.DCOLON)
	sig := &ast.FunctionSignature{Loc: name.Loc, Name: name.Lexeme}
	if p.scanForFatArrow() {
		sig.Constraints = p.parseContext()
	}
	sig.Type = p.parseType()
	return sig
}

// parseContext parses `C a =>` or `(C a, D b) =>`.
func (p *Parser) parseContext() []ast.Constraint {
	var out []ast.Constraint
	one := func() {
		class := p.expect(token.TYPE_IDENT)
		v := p.expect(token.IDENT)
		out = append(out, ast.Constraint{Loc: class.Loc, Class: class.Lexeme, Var: v.Lexeme})
	}
	if p.accept(token.LPAREN) {
		for !p.curIs(token.RPAREN) {
			one()
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
	} else {
		one()
	}
	p.expect(token.FAT_ARROW)
	return out
}

func (p *Parser) parseFunction() *ast.Function {
	name := p.next()
	fn := &ast.Function{Loc: name.Loc, Name: name.Lexeme}
	for !p.curIs(token.ASSIGN) {
		if !p.startsPatternAtom() {
			p.failExpected(token.ASSIGN, token.IDENT)
		}
		fn.Args = append(fn.Args, p.parsePatternAtom())
	}
	p.expect(token.ASSIGN)
	if p.accept(token.EXTERN) {
		return fn
	}
	fn.Body = p.parseExpression(LOWEST)
	return fn
}
