package cppast

import (
	"sort"
	"strings"
)

// Document is one parsed source file.
//
// Symbols lists every symbol the front end bound, in declaration order.
// Includes holds the spelled paths of #include directives. MainClasses holds
// class names named by QTEST_MAIN-style macros.
type Document struct {
	FileName    string
	Root        *TranslationUnit
	Global      *Scope
	Symbols     []*Symbol
	Includes    []string
	MainClasses []string
}

// DefinitionFinder locates the out-of-line definition of a function declaration.
type DefinitionFinder interface {
	FindMatchingDefinition(decl *Symbol) *Symbol
}

// TypeOfExpression infers the candidate types of an expression evaluated in scope.
type TypeOfExpression interface {
	TypeOf(expr Node, doc *Document, scope *Scope) []Type
}

// Snapshot is an immutable view over every known document. It is safe for
// concurrent reads.
type Snapshot struct {
	docs   []*Document
	byFile map[string]*Document
}

// NewSnapshot builds a snapshot. Documents are ordered by file name so every
// lookup is deterministic.
func NewSnapshot(docs ...*Document) *Snapshot {
	s := &Snapshot{byFile: make(map[string]*Document, len(docs))}
	for _, d := range docs {
		if d == nil {
			continue
		}
		s.docs = append(s.docs, d)
		s.byFile[d.FileName] = d
	}
	sort.SliceStable(s.docs, func(i, j int) bool {
		return s.docs[i].FileName < s.docs[j].FileName
	})
	return s
}

// Documents returns all documents ordered by file name.
func (s *Snapshot) Documents() []*Document {
	return s.docs
}

// Document returns the document for file, or nil.
func (s *Snapshot) Document(file string) *Document {
	return s.byFile[file]
}

// FindClass resolves a class by fully qualified name. An unqualified name
// falls back to the first class with that simple name.
func (s *Snapshot) FindClass(name string) *Symbol {
	name = strings.TrimPrefix(name, "::")
	qualified := strings.Contains(name, "::")
	var fallback *Symbol
	for _, d := range s.docs {
		for _, sym := range d.Symbols {
			if sym.Kind != ClassSymbol || sym.Members == nil {
				continue
			}
			if FullyQualifiedName(sym) == name {
				return sym
			}
			if fallback == nil && !qualified && sym.Name == name {
				fallback = sym
			}
		}
	}
	return fallback
}

// FindMatchingDefinition returns the definition of decl: decl itself when it
// has a body, otherwise a function with a body, the same fully qualified name
// and the same parameter count. It returns nil when none is known.
func (s *Snapshot) FindMatchingDefinition(decl *Symbol) *Symbol {
	if decl == nil || decl.Kind != FunctionSymbol {
		return nil
	}
	if decl.HasBody {
		return decl
	}
	fqn := FullyQualifiedName(decl)
	for _, d := range s.docs {
		for _, sym := range d.Symbols {
			if sym == decl || sym.Kind != FunctionSymbol || !sym.HasBody {
				continue
			}
			if sym.Params == decl.Params && sym.Name == decl.Name && FullyQualifiedName(sym) == fqn {
				return sym
			}
		}
	}
	return nil
}

// TypeOf infers the types of expr. It understands address-of and dereference,
// names bound in scope (including `auto` variables through their
// initializer), calls of known functions, new-expressions and parentheses.
// Anything else yields no candidates.
func (s *Snapshot) TypeOf(expr Node, doc *Document, scope *Scope) []Type {
	if scope == nil && doc != nil {
		scope = doc.Global
	}
	return s.typeOf(expr, scope, 0)
}

// maxTypeDepth bounds `auto` chains such as `auto a = b; auto b = a;`.
const maxTypeDepth = 16

func (s *Snapshot) typeOf(expr Node, scope *Scope, depth int) []Type {
	if expr == nil || depth > maxTypeDepth {
		return nil
	}
	switch e := expr.(type) {
	case *UnaryExpression:
		operand := s.typeOf(e.Operand, scope, depth+1)
		var out []Type
		for _, t := range operand {
			switch e.Op {
			case "&":
				out = append(out, &PointerType{Elem: t})
			case "*":
				if p, ok := t.(*PointerType); ok {
					out = append(out, p.Elem)
				}
			}
		}
		return out
	case *IDExpression:
		simple, ok := e.Name.(*SimpleName)
		if !ok {
			return nil
		}
		sym := scope.Lookup(simple.Identifier)
		if sym == nil {
			return nil
		}
		return s.typeOfSymbol(sym, depth)
	case *CallExpression:
		id, ok := e.Base.(*IDExpression)
		if !ok {
			return nil
		}
		simple, ok := id.Name.(*SimpleName)
		if !ok {
			return nil
		}
		sym := scope.Lookup(simple.Identifier)
		if sym == nil || sym.Kind != FunctionSymbol {
			return nil
		}
		if ft, ok := sym.Type.(*FunctionType); ok && ft.Result != nil {
			return []Type{s.resolve(ft.Result, sym.Scope)}
		}
		return nil
	case *NewExpression:
		if e.Type == nil {
			return nil
		}
		return []Type{&PointerType{Elem: s.resolve(&NamedType{Name: PrettyName(e.Type)}, scope)}}
	case *Unknown:
		if e.Kind == "parenthesized_expression" && len(e.Children) == 1 {
			return s.typeOf(e.Children[0], scope, depth+1)
		}
	}
	return nil
}

func (s *Snapshot) typeOfSymbol(sym *Symbol, depth int) []Type {
	if sym.Kind != VariableSymbol || sym.Type == nil {
		return nil
	}
	if named, ok := sym.Type.(*NamedType); ok && named.Name == "auto" {
		return s.typeOf(sym.Init, sym.Scope, depth+1)
	}
	return []Type{s.resolve(sym.Type, sym.Scope)}
}

// resolve binds named types to class symbols where possible.
func (s *Snapshot) resolve(t Type, scope *Scope) Type {
	switch t := t.(type) {
	case *NamedType:
		if t.Symbol != nil {
			return t
		}
		if !strings.Contains(t.Name, "::") {
			if sym := scope.Lookup(t.Name); sym != nil && sym.Kind == ClassSymbol {
				return &NamedType{Name: t.Name, Symbol: sym}
			}
		}
		if sym := s.FindClass(t.Name); sym != nil {
			return &NamedType{Name: t.Name, Symbol: sym}
		}
		return t
	case *PointerType:
		return &PointerType{Elem: s.resolve(t.Elem, scope)}
	}
	return t
}
