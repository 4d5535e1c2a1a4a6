// Package cppast defines a closed, fully resolved C++ syntax tree together with
// the symbol, scope and type information the test visitors consume.
//
// Trees are produced by a front end (see package cppfront) and are read-only once
// built. Positions are 1-based in both line and column.
package cppast

// Pos is the position of a node's first token.
type Pos struct {
	Line   int
	Column int
}

// Node is implemented by every syntax tree node. The set of node types is
// closed: only types in this package satisfy it.
type Node interface {
	Pos() Pos
	astNode()
}

// Name is a simple or qualified name.
type Name interface {
	Node
	astName()
}

// TranslationUnit is the root of a document.
type TranslationUnit struct {
	Start Pos
	Decls []Node
}

// NamespaceDefinition is `namespace Name { ... }`.
type NamespaceDefinition struct {
	Start Pos
	Name  string
	Decls []Node
	Scope *Scope
}

// ClassSpecifier is a class or struct with a body.
type ClassSpecifier struct {
	Start   Pos
	Name    Name
	Members []Node
	Symbol  *Symbol
}

// NamedTypeSpecifier names a type without defining it.
type NamedTypeSpecifier struct {
	Start Pos
	Name  Name
}

// SimpleDeclaration declares variables, fields or functions without bodies.
type SimpleDeclaration struct {
	Start       Pos
	Specifiers  []Node
	Declarators []*Declarator
}

// FunctionDefinition is a function with a body. Symbol is nil when the
// declarator could not be bound.
type FunctionDefinition struct {
	Start      Pos
	Specifiers []Node
	Declarator *Declarator
	Body       *CompoundStatement
	Symbol     *Symbol
}

// Declarator carries the declared name and, for functions, its parameters.
// Core is a *DeclaratorID when the declarator names something.
type Declarator struct {
	Start    Pos
	Core     Node
	Pointers int
	Function bool
	Params   []*ParameterDeclaration
	Init     Node
}

// DeclaratorID is the name part of a declarator.
type DeclaratorID struct {
	Start Pos
	Name  Name
}

// ParameterDeclaration is one function parameter.
type ParameterDeclaration struct {
	Start      Pos
	Specifiers []Node
	Declarator *Declarator
}

// CompoundStatement is a braced block. Scope holds the block's local symbols.
type CompoundStatement struct {
	Start      Pos
	Statements []Node
	Scope      *Scope
}

// ExpressionStatement is an expression followed by a semicolon.
type ExpressionStatement struct {
	Start Pos
	Expr  Node
}

// ReturnStatement is `return expr;`.
type ReturnStatement struct {
	Start Pos
	Expr  Node
}

// UsingDirective is `using namespace Name;`.
type UsingDirective struct {
	Start Pos
	Name  Name
}

// CallExpression is `Base(Args...)`.
type CallExpression struct {
	Start Pos
	Base  Node
	Args  []Node
}

// IDExpression is a name used as an expression.
type IDExpression struct {
	Start Pos
	Name  Name
}

// SimpleName is an unqualified identifier.
type SimpleName struct {
	Start      Pos
	Identifier string
}

// QualifiedName is `A::B::c`. Global is set for a leading `::`.
type QualifiedName struct {
	Start       Pos
	Global      bool
	Qualifiers  []*SimpleName
	Unqualified *SimpleName
}

// StringLiteral holds both the decoded value and the literal as written.
type StringLiteral struct {
	Start Pos
	Value string
	Raw   string
}

// NumericLiteral is a number as written.
type NumericLiteral struct {
	Start Pos
	Raw   string
}

// UnaryExpression is a prefix operator applied to Operand, e.g. `&x` or `*p`.
type UnaryExpression struct {
	Start   Pos
	Op      string
	Operand Node
}

// BinaryExpression covers arithmetic, stream and assignment operators.
type BinaryExpression struct {
	Start Pos
	Op    string
	Left  Node
	Right Node
}

// MemberAccess is `Base.Member` or `Base->Member`.
type MemberAccess struct {
	Start  Pos
	Base   Node
	Arrow  bool
	Member *SimpleName
}

// NewExpression is `new Type(Args...)`.
type NewExpression struct {
	Start Pos
	Type  Name
	Args  []Node
}

// Unknown is any construct the front end does not model. Kind is the front
// end's name for it; Children keeps nested constructs reachable.
type Unknown struct {
	Start    Pos
	Kind     string
	Children []Node
}

func (n *TranslationUnit) Pos() Pos      { return n.Start }
func (n *NamespaceDefinition) Pos() Pos  { return n.Start }
func (n *ClassSpecifier) Pos() Pos       { return n.Start }
func (n *NamedTypeSpecifier) Pos() Pos   { return n.Start }
func (n *SimpleDeclaration) Pos() Pos    { return n.Start }
func (n *FunctionDefinition) Pos() Pos   { return n.Start }
func (n *Declarator) Pos() Pos           { return n.Start }
func (n *DeclaratorID) Pos() Pos         { return n.Start }
func (n *ParameterDeclaration) Pos() Pos { return n.Start }
func (n *CompoundStatement) Pos() Pos    { return n.Start }
func (n *ExpressionStatement) Pos() Pos  { return n.Start }
func (n *ReturnStatement) Pos() Pos      { return n.Start }
func (n *UsingDirective) Pos() Pos       { return n.Start }
func (n *CallExpression) Pos() Pos       { return n.Start }
func (n *IDExpression) Pos() Pos         { return n.Start }
func (n *SimpleName) Pos() Pos           { return n.Start }
func (n *QualifiedName) Pos() Pos        { return n.Start }
func (n *StringLiteral) Pos() Pos        { return n.Start }
func (n *NumericLiteral) Pos() Pos       { return n.Start }
func (n *UnaryExpression) Pos() Pos      { return n.Start }
func (n *BinaryExpression) Pos() Pos     { return n.Start }
func (n *MemberAccess) Pos() Pos         { return n.Start }
func (n *NewExpression) Pos() Pos        { return n.Start }
func (n *Unknown) Pos() Pos              { return n.Start }

func (*TranslationUnit) astNode()      {}
func (*NamespaceDefinition) astNode()  {}
func (*ClassSpecifier) astNode()       {}
func (*NamedTypeSpecifier) astNode()   {}
func (*SimpleDeclaration) astNode()    {}
func (*FunctionDefinition) astNode()   {}
func (*Declarator) astNode()           {}
func (*DeclaratorID) astNode()         {}
func (*ParameterDeclaration) astNode() {}
func (*CompoundStatement) astNode()    {}
func (*ExpressionStatement) astNode()  {}
func (*ReturnStatement) astNode()      {}
func (*UsingDirective) astNode()       {}
func (*CallExpression) astNode()       {}
func (*IDExpression) astNode()         {}
func (*SimpleName) astNode()           {}
func (*QualifiedName) astNode()        {}
func (*StringLiteral) astNode()        {}
func (*NumericLiteral) astNode()       {}
func (*UnaryExpression) astNode()      {}
func (*BinaryExpression) astNode()     {}
func (*MemberAccess) astNode()         {}
func (*NewExpression) astNode()        {}
func (*Unknown) astNode()              {}

func (*SimpleName) astName()    {}
func (*QualifiedName) astName() {}
