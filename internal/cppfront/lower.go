package cppfront

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/testscan/internal/cppast"
	"github.com/phobologic/testscan/internal/lang"
)

// binder lowers a tree-sitter C++ tree into cppast while declaring every
// namespace, class, function and variable it meets in the current scope.
type binder struct {
	src        []byte
	file       string
	slotAccess map[uint32]bool
	doc        *cppast.Document

	scope  *cppast.Scope
	access cppast.Visibility
	slot   bool
}

func newBinder(src []byte, file string, slotAccess map[uint32]bool) *binder {
	return &binder{src: src, file: file, slotAccess: slotAccess}
}

func (b *binder) document(root *sitter.Node) *cppast.Document {
	global := cppast.NewScope(cppast.NamespaceScope, nil, nil)
	b.doc = &cppast.Document{FileName: b.file, Global: global}
	b.scope = global
	b.doc.Root = &cppast.TranslationUnit{Start: pos(root), Decls: b.lowerAll(root)}
	return b.doc
}

// dropped node kinds never reach the cppast tree.
var dropped = map[string]bool{
	"comment":              true,
	"preproc_include":      true,
	"preproc_def":          true,
	"preproc_function_def": true,
	"preproc_call":         true,
}

func (b *binder) lowerAll(n *sitter.Node) []cppast.Node {
	var out []cppast.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := b.lower(n.NamedChild(i)); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (b *binder) lower(n *sitter.Node) cppast.Node {
	if n == nil || dropped[n.Type()] {
		return nil
	}

	switch n.Type() {
	case "namespace_definition":
		return b.namespace(n)
	case "class_specifier", "struct_specifier", "union_specifier":
		return b.classSpecifier(n)
	case "function_definition":
		return b.functionDefinition(n)
	case "declaration", "field_declaration":
		return b.declaration(n)
	case "compound_statement":
		return b.compound(n)
	case "expression_statement":
		return &cppast.ExpressionStatement{Start: pos(n), Expr: b.lower(firstNamed(n))}
	case "return_statement":
		return &cppast.ReturnStatement{Start: pos(n), Expr: b.lower(firstNamed(n))}
	case "using_declaration":
		return b.using(n)

	case "call_expression":
		call := &cppast.CallExpression{Start: pos(n), Base: b.lower(n.ChildByFieldName("function"))}
		if args := n.ChildByFieldName("arguments"); args != nil {
			call.Args = b.lowerAll(args)
		}
		return call
	case "identifier", "field_identifier", "namespace_identifier", "type_identifier",
		"qualified_identifier", "template_function":
		return &cppast.IDExpression{Start: pos(n), Name: b.name(n)}
	case "string_literal", "raw_string_literal", "concatenated_string":
		return b.stringLiteral(n)
	case "number_literal":
		return &cppast.NumericLiteral{Start: pos(n), Raw: b.text(n)}
	case "pointer_expression", "unary_expression":
		return &cppast.UnaryExpression{
			Start:   pos(n),
			Op:      b.fieldText(n, "operator"),
			Operand: b.lower(n.ChildByFieldName("argument")),
		}
	case "binary_expression", "assignment_expression":
		return &cppast.BinaryExpression{
			Start: pos(n),
			Op:    b.fieldText(n, "operator"),
			Left:  b.lower(n.ChildByFieldName("left")),
			Right: b.lower(n.ChildByFieldName("right")),
		}
	case "field_expression":
		return &cppast.MemberAccess{
			Start:  pos(n),
			Base:   b.lower(n.ChildByFieldName("argument")),
			Arrow:  b.fieldText(n, "operator") == "->",
			Member: b.simpleName(n.ChildByFieldName("field")),
		}
	case "new_expression":
		expr := &cppast.NewExpression{Start: pos(n)}
		if t := n.ChildByFieldName("type"); t != nil {
			expr.Type = b.name(t)
		}
		if args := n.ChildByFieldName("arguments"); args != nil {
			expr.Args = b.lowerAll(args)
		}
		return expr
	}

	return &cppast.Unknown{Start: pos(n), Kind: n.Type(), Children: b.lowerAll(n)}
}

// declare adds sym to the current scope and to the document's symbol list.
func (b *binder) declare(sym *cppast.Symbol) {
	sym.File = b.file
	if b.scope.Kind == cppast.ClassScope {
		sym.Visibility = b.access
	}
	b.scope.Add(sym)
	b.doc.Symbols = append(b.doc.Symbols, sym)
}

func (b *binder) namespace(n *sitter.Node) cppast.Node {
	def := &cppast.NamespaceDefinition{Start: pos(n)}

	names := []string{""}
	at := pos(n)
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		def.Name = b.text(nameNode)
		names = strings.Split(def.Name, "::")
		at = pos(nameNode)
	}

	scope := b.scope
	for _, name := range names {
		sym := scope.Find(strings.TrimSpace(name))
		if sym == nil || sym.Kind != cppast.NamespaceSymbol || sym.Members == nil || sym.Name == "" {
			sym = &cppast.Symbol{
				Name:   strings.TrimSpace(name),
				Kind:   cppast.NamespaceSymbol,
				Line:   at.Line,
				Column: at.Column,
			}
			saved := b.scope
			b.scope = scope
			b.declare(sym)
			b.scope = saved
			sym.Members = cppast.NewScope(cppast.NamespaceScope, sym, scope)
		}
		scope = sym.Members
	}
	def.Scope = scope

	if body := n.ChildByFieldName("body"); body != nil {
		saved := b.scope
		b.scope = scope
		def.Decls = b.lowerAll(body)
		b.scope = saved
	}
	return def
}

func (b *binder) classSpecifier(n *sitter.Node) cppast.Node {
	var name cppast.Name
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = b.name(nameNode)
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		return &cppast.NamedTypeSpecifier{Start: pos(n), Name: name}
	}

	at := pos(n)
	sym := &cppast.Symbol{Kind: cppast.ClassSymbol, Bases: b.bases(n)}
	if name != nil {
		simple, qualifier := splitName(name)
		sym.Name, sym.Qualifier, at = simple.Identifier, qualifier, simple.Start
	}
	sym.Line, sym.Column = at.Line, at.Column
	b.declare(sym)
	sym.Members = cppast.NewScope(cppast.ClassScope, sym, b.scope)

	savedScope, savedAccess, savedSlot := b.scope, b.access, b.slot
	b.scope, b.slot = sym.Members, false
	b.access = cppast.Public
	if n.Type() == "class_specifier" {
		b.access = cppast.Private
	}

	var members []cppast.Node
	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)
		if c.Type() == "access_specifier" {
			b.access = visibility(b.text(c))
			b.slot = b.slotAccess[c.StartByte()]
			continue
		}
		if m := b.lower(c); m != nil {
			members = append(members, m)
		}
	}

	b.scope, b.access, b.slot = savedScope, savedAccess, savedSlot
	return &cppast.ClassSpecifier{Start: pos(n), Name: name, Members: members, Symbol: sym}
}

func visibility(keyword string) cppast.Visibility {
	switch strings.TrimSpace(keyword) {
	case "public":
		return cppast.Public
	case "protected":
		return cppast.Protected
	}
	return cppast.Private
}

func (b *binder) bases(n *sitter.Node) []string {
	var out []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "base_class_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			c := clause.NamedChild(j)
			switch c.Type() {
			case "type_identifier", "qualified_identifier", "template_type":
				out = append(out, cppast.PrettyName(b.name(c)))
			}
		}
	}
	return out
}

func (b *binder) functionDefinition(n *sitter.Node) cppast.Node {
	fn := &cppast.FunctionDefinition{Start: pos(n)}
	var spec cppast.Node
	if t := n.ChildByFieldName("type"); t != nil {
		spec = b.specifier(t)
		fn.Specifiers = []cppast.Node{spec}
	}

	bodyNode := n.ChildByFieldName("body")
	if bodyNode != nil && bodyNode.Type() == "try_statement" {
		bodyNode = bodyNode.ChildByFieldName("body")
	}

	fn.Declarator = b.declarator(n.ChildByFieldName("declarator"))
	fn.Symbol = b.function(fn.Declarator, specType(spec), bodyNode != nil)

	saved := b.scope
	b.scope = cppast.NewScope(cppast.FunctionScope, fn.Symbol, saved)
	if fn.Symbol != nil {
		fn.Symbol.Members = b.scope
	}
	if fn.Declarator != nil {
		for _, p := range fn.Declarator.Params {
			if p.Declarator != nil {
				b.variable(p.Declarator, paramType(p))
			}
		}
	}
	if bodyNode != nil && bodyNode.Type() == "compound_statement" {
		fn.Body = b.compound(bodyNode)
	}
	b.scope = saved
	return fn
}

func (b *binder) declaration(n *sitter.Node) cppast.Node {
	decl := &cppast.SimpleDeclaration{Start: pos(n)}
	var spec cppast.Node
	if t := n.ChildByFieldName("type"); t != nil {
		spec = b.specifier(t)
		decl.Specifiers = []cppast.Node{spec}
	}

	for _, c := range childrenByField(n, "declarator") {
		if d := b.declarator(c); d != nil {
			decl.Declarators = append(decl.Declarators, d)
		}
	}
	if dv := n.ChildByFieldName("default_value"); dv != nil && len(decl.Declarators) > 0 {
		if last := decl.Declarators[len(decl.Declarators)-1]; last.Init == nil {
			last.Init = b.lower(dv)
		}
	}

	base := specType(spec)
	for _, d := range decl.Declarators {
		if d.Function {
			b.function(d, base, false)
		} else {
			b.variable(d, wrap(base, d.Pointers))
		}
	}
	return decl
}

// function declares the function named by d. It returns nil when d does not
// declare a function.
func (b *binder) function(d *cppast.Declarator, result string, hasBody bool) *cppast.Symbol {
	if d == nil || !d.Function {
		return nil
	}
	id, ok := d.Core.(*cppast.DeclaratorID)
	if !ok || id.Name == nil {
		return nil
	}
	simple, qualifier := splitName(id.Name)

	ft := &cppast.FunctionType{Result: wrap(result, d.Pointers)}
	for _, p := range d.Params {
		ft.Params = append(ft.Params, paramType(p))
	}
	sym := &cppast.Symbol{
		Name:      simple.Identifier,
		Kind:      cppast.FunctionSymbol,
		Line:      simple.Start.Line,
		Column:    simple.Start.Column,
		Type:      ft,
		Params:    len(d.Params),
		HasBody:   hasBody,
		Qualifier: qualifier,
	}
	b.declare(sym)
	if b.scope.Kind == cppast.ClassScope {
		sym.Slot = b.slot
	}
	return sym
}

func (b *binder) variable(d *cppast.Declarator, typ cppast.Type) {
	id, ok := d.Core.(*cppast.DeclaratorID)
	if !ok || id.Name == nil {
		return
	}
	simple, qualifier := splitName(id.Name)
	b.declare(&cppast.Symbol{
		Name:      simple.Identifier,
		Kind:      cppast.VariableSymbol,
		Line:      simple.Start.Line,
		Column:    simple.Start.Column,
		Type:      typ,
		Init:      d.Init,
		Qualifier: qualifier,
	})
}

func (b *binder) specifier(t *sitter.Node) cppast.Node {
	switch t.Type() {
	case "class_specifier", "struct_specifier", "union_specifier":
		return b.classSpecifier(t)
	}
	return &cppast.NamedTypeSpecifier{Start: pos(t), Name: b.name(t)}
}

// specType names the type a specifier denotes, e.g. "ns::TestFoo" or "auto".
func specType(spec cppast.Node) string {
	switch s := spec.(type) {
	case *cppast.NamedTypeSpecifier:
		return cppast.PrettyName(s.Name)
	case *cppast.ClassSpecifier:
		if s.Symbol != nil {
			return cppast.FullyQualifiedName(s.Symbol)
		}
		return cppast.PrettyName(s.Name)
	}
	return ""
}

func paramType(p *cppast.ParameterDeclaration) cppast.Type {
	var base string
	if len(p.Specifiers) > 0 {
		base = specType(p.Specifiers[0])
	}
	pointers := 0
	if p.Declarator != nil {
		pointers = p.Declarator.Pointers
	}
	return wrap(base, pointers)
}

func wrap(base string, pointers int) cppast.Type {
	var t cppast.Type = &cppast.NamedType{Name: base}
	for i := 0; i < pointers; i++ {
		t = &cppast.PointerType{Elem: t}
	}
	return t
}

// declarator flattens a declarator chain such as `*p = new Foo` or
// `TestFoo::bar(int)` into one cppast.Declarator.
func (b *binder) declarator(n *sitter.Node) *cppast.Declarator {
	if n == nil {
		return nil
	}
	d := &cppast.Declarator{Start: pos(n)}
	for cur := n; cur != nil; {
		switch cur.Type() {
		case "init_declarator":
			if v := cur.ChildByFieldName("value"); v != nil {
				d.Init = b.lower(v)
			}
			cur = cur.ChildByFieldName("declarator")
		case "pointer_declarator", "abstract_pointer_declarator":
			// (*fp)(int) declares a pointer, not a function.
			d.Function, d.Params = false, nil
			d.Pointers++
			cur = cur.ChildByFieldName("declarator")
		case "function_declarator":
			d.Function = true
			d.Params = b.parameters(cur.ChildByFieldName("parameters"))
			cur = cur.ChildByFieldName("declarator")
		case "array_declarator":
			cur = cur.ChildByFieldName("declarator")
		case "reference_declarator", "parenthesized_declarator", "attributed_declarator":
			cur = firstNamed(cur)
		case "identifier", "field_identifier", "qualified_identifier", "destructor_name",
			"operator_name", "template_function", "type_identifier":
			d.Core = &cppast.DeclaratorID{Start: pos(cur), Name: b.name(cur)}
			cur = nil
		default:
			cur = nil
		}
	}
	return d
}

func (b *binder) parameters(list *sitter.Node) []*cppast.ParameterDeclaration {
	if list == nil {
		return nil
	}
	var out []*cppast.ParameterDeclaration
	for i := 0; i < int(list.NamedChildCount()); i++ {
		c := list.NamedChild(i)
		switch c.Type() {
		case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
		default:
			continue
		}
		p := &cppast.ParameterDeclaration{Start: pos(c)}
		if t := c.ChildByFieldName("type"); t != nil {
			p.Specifiers = []cppast.Node{&cppast.NamedTypeSpecifier{Start: pos(t), Name: b.name(t)}}
		}
		if dn := c.ChildByFieldName("declarator"); dn != nil {
			p.Declarator = b.declarator(dn)
		}
		if dv := c.ChildByFieldName("default_value"); dv != nil {
			if p.Declarator == nil {
				p.Declarator = &cppast.Declarator{Start: pos(dv)}
			}
			p.Declarator.Init = b.lower(dv)
		}
		out = append(out, p)
	}

	// f(void) takes no parameters.
	if len(out) == 1 && out[0].Declarator == nil && len(out[0].Specifiers) == 1 &&
		specType(out[0].Specifiers[0]) == "void" {
		return nil
	}
	return out
}

func (b *binder) compound(n *sitter.Node) *cppast.CompoundStatement {
	saved := b.scope
	b.scope = cppast.NewScope(cppast.BlockScope, nil, saved)
	block := &cppast.CompoundStatement{Start: pos(n), Scope: b.scope}
	block.Statements = b.lowerAll(n)
	b.scope = saved
	return block
}

// using lowers `using namespace X;`. Other using forms are kept as Unknown.
func (b *binder) using(n *sitter.Node) cppast.Node {
	isNamespace := false
	var nameNode *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch {
		case !c.IsNamed() && c.Type() == "namespace":
			isNamespace = true
		case c.IsNamed() && nameNode == nil && c.Type() != "comment":
			nameNode = c
		}
	}
	if !isNamespace || nameNode == nil {
		return &cppast.Unknown{Start: pos(n), Kind: n.Type(), Children: b.lowerAll(n)}
	}
	return &cppast.UsingDirective{Start: pos(n), Name: b.name(nameNode)}
}

// name lowers an identifier-like node. Template arguments are dropped:
// QList<int> names QList.
func (b *binder) name(n *sitter.Node) cppast.Name {
	switch n.Type() {
	case "qualified_identifier":
		return b.qualified(n)
	case "template_type", "template_function", "template_method",
		"class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
		if nm := n.ChildByFieldName("name"); nm != nil {
			return b.name(nm)
		}
	}
	return &cppast.SimpleName{Start: pos(n), Identifier: collapse(b.text(n))}
}

func (b *binder) qualified(n *sitter.Node) *cppast.QualifiedName {
	q := &cppast.QualifiedName{Start: pos(n)}
	cur := n
	for cur != nil && cur.Type() == "qualified_identifier" {
		scope := cur.ChildByFieldName("scope")
		switch {
		case scope != nil:
			q.Qualifiers = append(q.Qualifiers, b.simpleName(scope))
		case cur == n:
			q.Global = true
		}
		cur = cur.ChildByFieldName("name")
	}
	if cur == nil {
		q.Unqualified = &cppast.SimpleName{Start: pos(n)}
		return q
	}
	q.Unqualified = b.simpleName(cur)
	return q
}

// simpleName lowers n to its last unqualified component.
func (b *binder) simpleName(n *sitter.Node) *cppast.SimpleName {
	if n == nil {
		return nil
	}
	switch nm := b.name(n).(type) {
	case *cppast.SimpleName:
		return nm
	case *cppast.QualifiedName:
		return nm.Unqualified
	}
	return nil
}

func splitName(n cppast.Name) (*cppast.SimpleName, []string) {
	switch n := n.(type) {
	case *cppast.QualifiedName:
		var qualifier []string
		for _, q := range n.Qualifiers {
			qualifier = append(qualifier, q.Identifier)
		}
		return n.Unqualified, qualifier
	case *cppast.SimpleName:
		return n, nil
	}
	return &cppast.SimpleName{}, nil
}

func (b *binder) stringLiteral(n *sitter.Node) *cppast.StringLiteral {
	lit := &cppast.StringLiteral{Start: pos(n), Raw: b.text(n)}
	if n.Type() != "concatenated_string" {
		lit.Value = decodeString(n.Type(), lit.Raw)
		return lit
	}
	var sb strings.Builder
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "string_literal", "raw_string_literal":
			sb.WriteString(decodeString(c.Type(), b.text(c)))
		}
	}
	lit.Value = sb.String()
	return lit
}

// decodeString returns the value of a C++ string literal. An encoding prefix
// (u8, u, U, L) is ignored; escapes Go does not share fall back to the text
// between the quotes.
func decodeString(kind, raw string) string {
	i := strings.IndexByte(raw, '"')
	if i < 0 || !strings.HasSuffix(raw, `"`) || len(raw)-i < 2 {
		return raw
	}
	body := raw[i : len(raw)-1]
	if kind == "raw_string_literal" {
		// R"delim( ... )delim"
		open := strings.IndexByte(body, '(')
		end := strings.LastIndexByte(body, ')')
		if open < 0 || end < open {
			return body[1:]
		}
		return body[open+1 : end]
	}
	if v, err := strconv.Unquote(raw[i:]); err == nil {
		return v
	}
	return body[1:]
}

func (b *binder) text(n *sitter.Node) string {
	return lang.NodeText(n, b.src)
}

func (b *binder) fieldText(n *sitter.Node, field string) string {
	if c := n.ChildByFieldName(field); c != nil {
		return b.text(c)
	}
	return ""
}

// childrenByField returns every child of n stored under field; a
// declaration may carry several declarators.
func childrenByField(n *sitter.Node, field string) []*sitter.Node {
	c := sitter.NewTreeCursor(n)
	defer c.Close()

	var out []*sitter.Node
	for ok := c.GoToFirstChild(); ok; ok = c.GoToNextSibling() {
		if c.CurrentFieldName() == field {
			out = append(out, c.CurrentNode())
		}
	}
	return out
}

func firstNamed(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() != "comment" {
			return c
		}
	}
	return nil
}

func pos(n *sitter.Node) cppast.Pos {
	p := n.StartPoint()
	return cppast.Pos{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
