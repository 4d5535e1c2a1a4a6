package cppast

import "strings"

// ScopeKind distinguishes the lexical regions that own symbols.
type ScopeKind int

const (
	NamespaceScope ScopeKind = iota
	ClassScope
	FunctionScope
	BlockScope
)

// SymbolKind is the kind of a declared entity.
type SymbolKind int

const (
	NamespaceSymbol SymbolKind = iota
	ClassSymbol
	FunctionSymbol
	VariableSymbol
)

// Visibility is a member's access level.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Protected:
		return "protected"
	case Private:
		return "private"
	}
	return "public"
}

// Scope is a lexical region. Owner is the namespace, class or function
// symbol the scope belongs to; it is nil for blocks and the global scope.
type Scope struct {
	Kind    ScopeKind
	Owner   *Symbol
	Parent  *Scope
	Symbols []*Symbol
}

// NewScope returns an empty scope nested in parent.
func NewScope(kind ScopeKind, owner *Symbol, parent *Scope) *Scope {
	return &Scope{Kind: kind, Owner: owner, Parent: parent}
}

// Add declares sym in s.
func (s *Scope) Add(sym *Symbol) {
	sym.Scope = s
	s.Symbols = append(s.Symbols, sym)
}

// Find returns the most recent symbol named name declared directly in s.
func (s *Scope) Find(name string) *Symbol {
	if s == nil {
		return nil
	}
	for i := len(s.Symbols) - 1; i >= 0; i-- {
		if s.Symbols[i].Name == name {
			return s.Symbols[i]
		}
	}
	return nil
}

// Lookup resolves name from s outwards through enclosing scopes.
func (s *Scope) Lookup(name string) *Symbol {
	for sc := s; sc != nil; sc = sc.Parent {
		if sym := sc.Find(name); sym != nil {
			return sym
		}
	}
	return nil
}

// Symbol is a declared entity. Line and Column are 1-based and point at the
// declared name.
//
// Qualifier holds the explicit scope of an out-of-line definition, e.g.
// ["TestFoo"] for `void TestFoo::bar() {}`. Members is the scope a
// namespace, class or function symbol owns.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	File       string
	Line       int
	Column     int
	Visibility Visibility
	Slot       bool
	Type       Type
	Params     int
	HasBody    bool
	Qualifier  []string
	Bases      []string
	Init       Node
	Scope      *Scope
	Members    *Scope
}

// MemberList returns the symbols declared in a class or namespace body.
func (s *Symbol) MemberList() []*Symbol {
	if s == nil || s.Members == nil {
		return nil
	}
	return s.Members.Symbols
}

// EnclosingClass returns the class a member is declared in, or nil.
func (s *Symbol) EnclosingClass() *Symbol {
	if s == nil || s.Scope == nil || s.Scope.Kind != ClassScope {
		return nil
	}
	return s.Scope.Owner
}

// IsMethod reports whether s is a function declared inside a class.
func (s *Symbol) IsMethod() bool {
	if s == nil || s.Kind != FunctionSymbol {
		return false
	}
	_, ok := s.Type.(*FunctionType)
	return ok && s.EnclosingClass() != nil
}

// FullyQualifiedName returns the symbol's name prefixed with every enclosing
// namespace and class, e.g. "ns::TestFoo::bar". A nil symbol yields "".
func FullyQualifiedName(s *Symbol) string {
	if s == nil {
		return ""
	}
	var parts []string
	for sc := s.Scope; sc != nil; sc = sc.Parent {
		if sc.Owner == nil || sc.Owner.Name == "" || sc.Kind == FunctionScope || sc.Kind == BlockScope {
			continue
		}
		parts = append(parts, sc.Owner.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	parts = append(parts, s.Qualifier...)
	parts = append(parts, s.Name)
	return strings.Join(parts, "::")
}
