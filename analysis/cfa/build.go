package cfa

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/token"
	"go/types"

	"github.com/cs-au-dk/mint/analysis/defs"
	"github.com/cs-au-dk/mint/analysis/expr"
	"github.com/cs-au-dk/mint/pkgutil"
	"github.com/cs-au-dk/mint/utils/graph"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/cfg"
)

// compoundOps maps assignment operators to the binary operator they apply.
var compoundOps = map[token.Token]token.Token{
	token.ADD_ASSIGN:     token.ADD,
	token.SUB_ASSIGN:     token.SUB,
	token.MUL_ASSIGN:     token.MUL,
	token.QUO_ASSIGN:     token.QUO,
	token.REM_ASSIGN:     token.REM,
	token.AND_ASSIGN:     token.AND,
	token.OR_ASSIGN:      token.OR,
	token.XOR_ASSIGN:     token.XOR,
	token.SHL_ASSIGN:     token.SHL,
	token.SHR_ASSIGN:     token.SHR,
	token.AND_NOT_ASSIGN: token.AND_NOT,
}

// noReturn lists library functions that never return to the caller.
var noReturn = map[string]bool{
	"os.Exit":     true,
	"log.Fatal":   true,
	"log.Fatalf":  true,
	"log.Fatalln": true,
	"log.Panic":   true,
	"log.Panicf":  true,
	"log.Panicln": true,
}

type builder struct {
	fset *token.FileSet
	info *types.Info
	conv expr.Converter
	fn   *Function

	// tags maps the case expressions of switch statements to the switch tag.
	// Tagless switches map their cases to nil.
	tags map[ast.Expr]ast.Expr
	// blocks maps basic blocks to their first location.
	blocks map[*cfg.Block]*Node
	nodes  []*Node
}

// Build lowers the body of a type-checked function declaration.
//
// Parameters, named results and all local variables are declared at function
// entry, in that order. Short variable declarations in the body become plain
// assignments. Conditions are split at &&, || and ! so every assume edge
// carries a single comparison.
func Build(fset *token.FileSet, fdecl *ast.FuncDecl, info *types.Info) (*Function, error) {
	if fdecl.Body == nil {
		return nil, errors.Wrapf(ErrUnsupportedStatement, "%s has no body", fdecl.Name.Name)
	}

	b := &builder{
		fset:   fset,
		info:   info,
		conv:   expr.Converter{Info: info},
		fn:     &Function{Name: pkgutil.FuncName(fdecl), fset: fset},
		tags:   make(map[ast.Expr]ast.Expr),
		blocks: make(map[*cfg.Block]*Node),
	}

	if err := b.check(fdecl.Body); err != nil {
		return nil, errors.WithMessagef(err, "building %s", b.fn.Name)
	}

	g := cfg.New(fdecl.Body, b.mayReturn)

	b.fn.Entry = b.newNode(fdecl.Pos())
	b.fn.Entry.kind = Entry
	b.fn.Exit = b.newNode(fdecl.Body.Rbrace)
	b.fn.Exit.kind = Exit

	b.blocks[g.Blocks[0]] = b.declarations(fdecl)

	for _, blk := range g.Blocks {
		if !blk.Live {
			continue
		}
		if err := b.block(blk); err != nil {
			return nil, errors.WithMessagef(err, "building %s", b.fn.Name)
		}
	}

	b.renumber()
	return b.fn, nil
}

func (b *builder) newNode(pos token.Pos) *Node {
	n := &Node{pos: pos}
	b.nodes = append(b.nodes, n)
	return n
}

func (b *builder) position(pos token.Pos) token.Position {
	return b.fset.Position(pos)
}

func (b *builder) text(n ast.Node) string {
	var buf bytes.Buffer
	if err := format.Node(&buf, b.fset, n); err != nil {
		return ""
	}
	return buf.String()
}

// check rejects statements the automaton cannot represent, and variables
// that may be modified through pointers. It also records switch tags.
func (b *builder) check(body *ast.BlockStmt) (err error) {
	unsupported := func(n ast.Node, what string) {
		err = errors.Wrapf(ErrUnsupportedStatement, "%s: %s", b.position(n.Pos()), what)
	}

	ast.Inspect(body, func(n ast.Node) bool {
		if err != nil {
			return false
		}

		switch n := n.(type) {
		case *ast.FuncLit:
			return false
		case *ast.RangeStmt:
			unsupported(n, "range loop")
		case *ast.SelectStmt:
			unsupported(n, "select statement")
		case *ast.TypeSwitchStmt:
			unsupported(n, "type switch")
		case *ast.GoStmt:
			unsupported(n, "go statement")
		case *ast.DeferStmt:
			unsupported(n, "defer statement")
		case *ast.SendStmt:
			unsupported(n, "channel send")
		case *ast.UnaryExpr:
			if n.Op != token.AND {
				break
			}
			if id, ok := astutil.Unparen(n.X).(*ast.Ident); ok && expr.IsLocal(b.info.ObjectOf(id)) {
				err = errors.Wrapf(expr.ErrUnsupportedExpression,
					"%s: address of %s is taken", b.position(n.Pos()), id.Name)
			}
		case *ast.SelectorExpr:
			// Calling a pointer method on an addressable variable takes its address.
			sel, ok := b.info.Selections[n]
			if !ok || sel.Kind() != types.MethodVal {
				break
			}
			if _, isPtr := b.info.TypeOf(n.X).Underlying().(*types.Pointer); isPtr {
				break
			}
			recv := sel.Obj().(*types.Func).Type().(*types.Signature).Recv()
			if _, isPtr := recv.Type().(*types.Pointer); !isPtr {
				break
			}
			if id, ok := astutil.Unparen(n.X).(*ast.Ident); ok && expr.IsLocal(b.info.ObjectOf(id)) {
				err = errors.Wrapf(expr.ErrUnsupportedExpression,
					"%s: %s.%s takes the address of %s", b.position(n.Pos()), id.Name, n.Sel.Name, id.Name)
			}
		case *ast.SwitchStmt:
			for _, clause := range n.Body.List {
				for _, e := range clause.(*ast.CaseClause).List {
					b.tags[e] = n.Tag
				}
			}
		}
		return true
	})
	return
}

func (b *builder) mayReturn(call *ast.CallExpr) bool {
	switch fun := astutil.Unparen(call.Fun).(type) {
	case *ast.Ident:
		if obj, ok := b.info.Uses[fun].(*types.Builtin); ok && obj.Name() == "panic" {
			return false
		}
	case *ast.SelectorExpr:
		if obj, ok := b.info.Uses[fun.Sel].(*types.Func); ok && obj.Pkg() != nil {
			return !noReturn[obj.Pkg().Path()+"."+obj.Name()]
		}
	}
	return true
}

// declarations creates the chain of declarations at function entry, and
// returns the location after it.
func (b *builder) declarations(fdecl *ast.FuncDecl) *Node {
	var params, results, locals []*types.Var

	fields := func(list *ast.FieldList, into *[]*types.Var) {
		if list == nil {
			return
		}
		for _, field := range list.List {
			for _, name := range field.Names {
				if v, ok := b.info.Defs[name].(*types.Var); ok && v.Name() != "_" {
					*into = append(*into, v)
				}
			}
		}
	}
	fields(fdecl.Recv, &params)
	fields(fdecl.Type.Params, &params)
	fields(fdecl.Type.Results, &results)

	ast.Inspect(fdecl.Body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncLit:
			return false
		case *ast.Ident:
			if v, ok := b.info.Defs[n].(*types.Var); ok && v.Name() != "_" && !v.IsField() {
				locals = append(locals, v)
			}
		}
		return true
	})

	cur := b.fn.Entry
	declare := func(v *types.Var) defs.Var {
		dv := expr.VarOf(v)
		next := b.newNode(v.Pos())
		connect(&DeclarationEdge{BaseEdge: BaseEdge{pos: v.Pos()}, Var: dv, Type: v.Type()}, cur, next)
		cur = next
		return dv
	}

	for _, v := range params {
		b.fn.Params = append(b.fn.Params, declare(v))
	}

	zero := &StatementEdge{BaseEdge: BaseEdge{pos: fdecl.Type.Pos()}}
	for _, v := range results {
		dv := declare(v)
		b.fn.Params = append(b.fn.Params, dv)
		zero.Lhs = append(zero.Lhs, dv)
		zero.Rhs = append(zero.Rhs, zeroValue(v.Type()))
	}

	for _, v := range locals {
		b.fn.Locals = append(b.fn.Locals, declare(v))
	}

	if len(zero.Lhs) > 0 {
		next := b.newNode(fdecl.Body.Lbrace)
		connect(zero, cur, next)
		cur = next
	}

	return cur
}

// zeroValue is the initial value of a variable declared without one.
func zeroValue(t types.Type) expr.Expr {
	if basic, ok := t.Underlying().(*types.Basic); ok && basic.Info()&(types.IsNumeric|types.IsBoolean) != 0 {
		return expr.Literal{Value: 0}
	}
	return expr.Unknown{Text: "zero(" + t.String() + ")"}
}

// entryOf retrieves the first location of a basic block.
func (b *builder) entryOf(blk *cfg.Block) *Node {
	if n, found := b.blocks[blk]; found {
		return n
	}

	pos := token.NoPos
	if len(blk.Nodes) > 0 {
		pos = blk.Nodes[0].Pos()
	}
	n := b.newNode(pos)
	b.blocks[blk] = n
	return n
}

func (b *builder) block(blk *cfg.Block) (err error) {
	cur := b.entryOf(blk)

	stmts := blk.Nodes
	var cond ast.Expr
	if len(blk.Succs) == 2 {
		if len(stmts) == 0 {
			return errors.Wrapf(ErrUnsupportedStatement, "%s has no branch condition", blk)
		}
		var ok bool
		if cond, ok = stmts[len(stmts)-1].(ast.Expr); !ok {
			return errors.Wrapf(ErrUnsupportedStatement, "%s: branch on %T",
				b.position(stmts[len(stmts)-1].Pos()), stmts[len(stmts)-1])
		}
		stmts = stmts[:len(stmts)-1]
	}

	for _, s := range stmts {
		if cur, err = b.stmt(cur, s); err != nil || cur == nil {
			return
		}
	}

	switch len(blk.Succs) {
	case 1:
		connect(&BlankEdge{BaseEdge: BaseEdge{pos: cur.pos}}, cur, b.entryOf(blk.Succs[0]))
	case 2:
		b.cond(cur, cond, b.entryOf(blk.Succs[0]), b.entryOf(blk.Succs[1]))
	}
	return nil
}

// stmt lowers a statement starting at the given location, and returns the
// location after it. The result is nil after return statements.
func (b *builder) stmt(cur *Node, n ast.Node) (*Node, error) {
	switch s := n.(type) {
	case *ast.AssignStmt:
		rhs := make([]expr.Expr, len(s.Lhs))
		switch {
		case s.Tok == token.ASSIGN || s.Tok == token.DEFINE:
			if len(s.Rhs) == len(s.Lhs) {
				for i, e := range s.Rhs {
					rhs[i] = b.conv.Convert(e)
				}
				break
			}
			// Tuple assignments from calls, map lookups or type assertions.
			res := b.conv.Convert(s.Rhs[0])
			if _, ok := res.(expr.Call); !ok {
				res = expr.Unknown{Text: types.ExprString(s.Rhs[0])}
			}
			for i := range rhs {
				rhs[i] = res
			}
		default:
			op, ok := compoundOps[s.Tok]
			if !ok {
				return nil, errors.Wrapf(ErrUnsupportedStatement, "%s: assignment operator %s",
					b.position(s.Pos()), s.Tok)
			}
			rhs[0] = expr.Binary{Op: op, X: b.conv.Convert(s.Lhs[0]), Y: b.conv.Convert(s.Rhs[0])}
		}
		return b.assign(cur, s, s.Lhs, rhs), nil

	case *ast.IncDecStmt:
		op := token.ADD
		if s.Tok == token.DEC {
			op = token.SUB
		}
		rhs := expr.Binary{Op: op, X: b.conv.Convert(s.X), Y: expr.Literal{Value: 1}}
		return b.assign(cur, s, []ast.Expr{s.X}, []expr.Expr{rhs}), nil

	case *ast.ValueSpec:
		lhs := make([]ast.Expr, 0, len(s.Names))
		rhs := make([]expr.Expr, 0, len(s.Names))
		for i, name := range s.Names {
			lhs = append(lhs, name)
			switch {
			case len(s.Values) == len(s.Names):
				rhs = append(rhs, b.conv.Convert(s.Values[i]))
			case len(s.Values) == 0:
				rhs = append(rhs, zeroValue(b.info.TypeOf(name)))
			default:
				rhs = append(rhs, expr.Unknown{Text: types.ExprString(s.Values[0])})
			}
		}
		return b.assign(cur, s, lhs, rhs), nil

	case *ast.ExprStmt:
		if call, ok := b.conv.Convert(s.X).(expr.Call); ok {
			mid := b.newNode(s.X.Pos())
			connect(&FunctionCallEdge{BaseEdge: BaseEdge{pos: s.Pos()}, Call: call}, cur, mid)
			next := b.newNode(s.End())
			connect(&FunctionReturnEdge{BaseEdge: BaseEdge{pos: s.End()}, Call: call}, mid, next)
			return next, nil
		}
		next := b.newNode(s.End())
		connect(&BlankEdge{BaseEdge: BaseEdge{pos: s.Pos()}, Text: b.text(s)}, cur, next)
		return next, nil

	case *ast.ReturnStmt:
		results := make([]expr.Expr, 0, len(s.Results))
		for _, e := range s.Results {
			results = append(results, b.conv.Convert(e))
		}
		connect(&ReturnStatementEdge{BaseEdge: BaseEdge{pos: s.Pos()}, Results: results}, cur, b.fn.Exit)
		return nil, nil

	case *ast.EmptyStmt:
		return cur, nil

	case ast.Expr:
		// Switch tags are evaluated by the case conditions.
		return cur, nil
	}

	return nil, errors.Wrapf(ErrUnsupportedStatement, "%s: %T", b.position(n.Pos()), n)
}

// assign creates a statement edge for the assignments to local variables.
// Writes to blank identifiers, globals, fields and elements are not tracked.
func (b *builder) assign(cur *Node, s ast.Node, lhs []ast.Expr, rhs []expr.Expr) *Node {
	edge := &StatementEdge{BaseEdge: BaseEdge{pos: s.Pos()}}
	for i, l := range lhs {
		id, ok := astutil.Unparen(l).(*ast.Ident)
		if !ok || id.Name == "_" {
			continue
		}
		if obj := b.info.ObjectOf(id); expr.IsLocal(obj) {
			edge.Lhs = append(edge.Lhs, expr.VarOf(obj))
			edge.Rhs = append(edge.Rhs, rhs[i])
		}
	}

	next := b.newNode(s.End())
	if len(edge.Lhs) == 0 {
		connect(&BlankEdge{BaseEdge: BaseEdge{pos: s.Pos()}, Text: b.text(s)}, cur, next)
	} else {
		connect(edge, cur, next)
	}
	return next
}

// cond lowers a branch on a boolean expression into assume edges.
func (b *builder) cond(from *Node, e ast.Expr, t, f *Node) {
	if b.tags[e] == nil {
		switch x := e.(type) {
		case *ast.ParenExpr:
			b.cond(from, x.X, t, f)
			return
		case *ast.UnaryExpr:
			if x.Op == token.NOT {
				b.cond(from, x.X, f, t)
				return
			}
		case *ast.BinaryExpr:
			switch x.Op {
			case token.LAND:
				mid := b.newNode(x.Y.Pos())
				b.cond(from, x.X, mid, f)
				b.cond(mid, x.Y, t, f)
				return
			case token.LOR:
				mid := b.newNode(x.Y.Pos())
				b.cond(from, x.X, t, mid)
				b.cond(mid, x.Y, t, f)
				return
			}
		}
	}

	c := b.condition(e)
	connect(&AssumeEdge{BaseEdge: BaseEdge{pos: e.Pos()}, Cond: c, Truth: true}, from, t)
	connect(&AssumeEdge{BaseEdge: BaseEdge{pos: e.Pos()}, Cond: c, Truth: false}, from, f)
}

// condition turns a boolean expression into a comparison.
func (b *builder) condition(e ast.Expr) expr.Binary {
	if tag := b.tags[e]; tag != nil {
		return expr.Binary{Op: token.EQL, X: b.conv.Convert(tag), Y: b.conv.Convert(e)}
	}
	if c, ok := b.conv.Convert(e).(expr.Binary); ok && expr.IsRelational(c.Op) {
		return c
	}
	return expr.Binary{Op: token.NEQ, X: b.conv.Convert(e), Y: expr.Literal{Value: 0}}
}

// renumber assigns location identifiers in reverse postorder, and drops
// locations unreachable from the entry. The exit location is kept.
func (b *builder) renumber() {
	G := graph.Of(func(n *Node) []*Node {
		return n.Successors()
	})

	order := G.ReversePostorder(b.fn.Entry)
	reachable := make(map[*Node]bool, len(order))
	for _, n := range order {
		reachable[n] = true
	}
	if !reachable[b.fn.Exit] {
		order = append(order, b.fn.Exit)
	}

	for i, n := range order {
		n.id = defs.Loc(i)
		in := n.in[:0]
		for _, e := range n.in {
			if reachable[e.Predecessor()] {
				in = append(in, e)
			}
		}
		n.in = in
	}

	b.fn.nodes = order
}
