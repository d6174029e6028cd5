// Copyright 2024 The cds-pg-sub004 Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package csn

// QueryKind discriminates the three query-node variants of spec.md §3:
// a leading/nested SELECT, a SET operation (UNION/INTERSECT/EXCEPT) over
// argument queries, and a subquery appearing in a FROM clause.
type QueryKind int

const (
	QuerySelect QueryKind = iota
	QuerySet
	QuerySubqueryFrom
)

// Query is one SELECT, SET, or subquery-in-FROM node (spec.md §3 "Query
// node"). Columns/Where/GroupBy/etc. are nil/empty when not applicable to
// Kind.
type Query struct {
	ID   ID
	Kind QueryKind

	// SELECT fields.
	From    *FromClause
	Columns []Column // nil means "*" was not expanded yet, or no explicit list
	Where   Expr
	GroupBy []Expr
	Having  Expr
	OrderBy []OrderItem
	Limit   *Value
	Offset  *Value
	Mixins  *Dict[ID] // mixin name -> Member ID (MemberMixin)

	// SET fields (Kind == QuerySet).
	SetOp   string // "union", "union all", "intersect", "except"
	SetArgs []ID   // argument query IDs; share the set-query's cache (spec.md §3)

	// Shared lexical/scope bookkeeping.
	TableAliases *Dict[ID] // alias name -> Member ID (MemberTableAlias/MemberJoin)
	SelfAlias    ID        // the synthetic $self member, which also answers to $projection
	LeadingQuery ID        // _leadingQuery: the primary SELECT of a top-level query artifact
	Main         ID        // _main: the enclosing artifact
	NextLexical  ID        // _$next: lexical parent query for name search
	Parent       ID        // enclosing query, if this is a subquery
}

// FromClause is the FROM of a SELECT: a path reference, a subquery, or a
// join of two FromClauses.
type FromClause struct {
	Path     *PathRef // set when FROM names a table/view path
	Subquery ID       // set when FROM is `(SELECT ...) as alias`; refers to a Query
	Join     *JoinClause
	Alias    string // explicit or implicit alias (last path id, unless FROM is a join)
}

// JoinClause is one JOIN in a FROM tree. Kind is "inner"/"left"/"right"/
// "full"/"cross". TableAliases enforces the "JOIN nodes carry their own
// $tableAliases" rule of spec.md §4.3.
type JoinClause struct {
	Kind         string
	Left, Right  *FromClause
	On           Expr
	Natural      bool
	TableAliases *Dict[ID]
}

// Column is one SELECT column: `*` (optionally excluding names), an
// expression with optional alias, or a structured expand/inline
// continuation of a path reference.
type Column struct {
	Star      bool
	Excluding []string // columns to drop from a `*` expansion
	Expr      Expr
	Alias     string
	Expand    []Column // expand { ... } continuation on an association ref
	Inline    []Column // inline { ... } continuation on a struct/assoc ref
}

// OrderItem is one ORDER BY entry.
type OrderItem struct {
	Expr Expr
	Desc bool
}

// Expr is any scalar expression appearing in where/having/on/columns/
// groupBy/orderBy. The closed set of variants below covers everything the
// resolver and inspector need to walk to find nested PathRefs (spec.md §4.4
// "resolves every reference ... in ... where, on, columns").
type Expr interface {
	isExpr()
}

// Literal wraps a CSN {val: ...} node.
type Literal struct {
	Value Value
}

func (*Literal) isExpr() {}

// Ref wraps a path reference used as an expression operand.
type Ref struct {
	Path *PathRef
}

func (*Ref) isExpr() {}

// BinOp is a binary operator expression, e.g. the `>` in
// `{ref: ['price']}, '>', {val: 10}`.
type BinOp struct {
	Op          string
	Left, Right Expr
}

func (*BinOp) isExpr() {}

// LogicalOp is `and`/`or` chaining (spec.md §4.6 restricts generated
// referential-constraint on-conditions to `=` and `and`).
type LogicalOp struct {
	Op    string // "and" | "or" | "not"
	Exprs []Expr
}

func (*LogicalOp) isExpr() {}

// FuncCall is a function/aggregate invocation.
type FuncCall struct {
	Name string
	Args []Expr
}

func (*FuncCall) isExpr() {}

// Param is a `$parameters.x` / positional `?` reference.
type Param struct {
	Name string
}

func (*Param) isExpr() {}

// PathItem is one step of a path reference: an id plus optional filter
// (`where`), call arguments (`args`), and expand/inline continuations
// (spec.md §3 "Path reference").
type PathItem struct {
	ID     string
	Filter Expr
	Args   []Expr
	Expand []Column
	Inline []Column
}

// LinkStep is the per-step resolution metadata attached to a PathRef once
// the resolver has walked it: which artifact/member the step landed on, and
// a human-readable description of the environment it was found in.
type LinkStep struct {
	Art ID
	Env string
}

// PathRef is an ordered sequence of PathItems (spec.md §3 "Path reference").
// ContextKey selects the reference-context semantics of spec.md §4.5's
// table (e.g. "type", "keys", "on", "orderBy", ...). Links/TerminalArt/Scope/
// EnvAux are populated by resolve.Resolver or inspect.Inspector; they are the
// per-step `_links`/terminal `_art`/`$scope`/`$env` spec.md §4.4 describes.
type PathRef struct {
	ID         ID
	Path       []PathItem
	ContextKey string

	// Populated on resolution success.
	Links       []LinkStep
	TerminalArt ID
	Scope       string // "global|param|parent|target|$magic|$self|mixin|alias|source|query|ref-target|expand|inline"
	EnvAux      string

	// Populated on resolution failure.
	Unresolved bool
	ValidNames []string

	// BaseEnv is a caller-supplied base environment (§4.5: expand/inline pass
	// the terminal type's elements as a base environment to child lookups).
	BaseEnvArt ID

	Loc Location
}

// IsResolved reports whether the path's final step resolved to an artifact
// or member (spec.md §8 "reference soundness").
func (p *PathRef) IsResolved() bool {
	return !p.Unresolved && len(p.Links) == len(p.Path) && p.TerminalArt != NoID
}
