package reflect

import (
	"fmt"

	"github.com/loomlang/loom/internal/ir"
	"github.com/loomlang/loom/internal/lmerr"
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// nodeValueType constructs the distinguished recursive struct type
// describing the shape of IR node terms. Unlike the type-of-types shape,
// this one is a single recursive STRUCT rather than a variant-per-
// constructor: ir.Node itself is already one tagged struct with many
// kind-dependent optional fields (node.go), so the reflected value mirrors
// that same shape directly rather than hand-building ~30 distinct case
// payloads.
//
// Embedded literal values (KLiteral's payload, KFuncLit/KAsyncFuncLit's
// litBack) are carried by index into a side constant pool rather than
// unrolled into this schema, the same separation internal/bytecode.Compiler
// makes between its instruction stream and its
// Constants slice: a single recursive shape has no slot whose type could
// vary per occurrence the way a literal's own static type does.
// NodeSchemaType is the exported form of nodeValueType, for callers outside
// this package (pkg/loom) that need to know the static type to decode a
// serialized IR node value into before calling IRFromValue.
func NodeSchemaType() *types.Type {
	return nodeValueType()
}

func nodeValueType() *types.Type {
	wrapper := types.NewRecursiveBuilder()

	childrenLeaf := wrapper.Leaf()
	childrenArr := types.NewArray(childrenLeaf)
	childrenLeaf.Release()

	dictKeyLeaf := wrapper.Leaf()
	dictValLeaf := wrapper.Leaf()
	dictEntryType := types.NewStruct([]types.Field{
		{Name: "key", Type: dictKeyLeaf},
		{Name: "value", Type: dictValLeaf},
	})
	dictKeyLeaf.Release()
	dictValLeaf.Release()
	dictEntriesArr := types.NewArray(dictEntryType)
	dictEntryType.Release()

	matchBodyLeaf := wrapper.Leaf()
	matchCaseType := types.NewStruct([]types.Field{
		{Name: "case_name", Type: types.TString},
		{Name: "bind", Type: types.TString},
		{Name: "body", Type: matchBodyLeaf},
	})
	matchBodyLeaf.Release()
	matchCasesArr := types.NewArray(matchCaseType)
	matchCaseType.Release()

	paramsArr := types.NewArray(types.TString)

	locEntry := locEntryType()
	locArr := types.NewArray(locEntry)
	locEntry.Release()

	totType := TypeOfTypesType()
	typeArgsArr := types.NewArray(totType)

	fields := []types.Field{
		{Name: "bind", Type: types.TString},
		{Name: "case_name", Type: types.TString},
		{Name: "children", Type: childrenArr},
		{Name: "cols", Type: types.TInteger},
		{Name: "dict_entries", Type: dictEntriesArr},
		{Name: "has_catch", Type: types.TBoolean},
		{Name: "has_else", Type: types.TBoolean},
		{Name: "has_finally", Type: types.TBoolean},
		{Name: "has_label", Type: types.TBoolean},
		{Name: "kind", Type: types.TString},
		{Name: "label", Type: types.TString},
		{Name: "lit_back_index", Type: types.TInteger},
		{Name: "literal_index", Type: types.TInteger},
		{Name: "locations", Type: locArr},
		{Name: "match_cases", Type: matchCasesArr},
		{Name: "msg_var", Type: types.TString},
		{Name: "name", Type: types.TString},
		{Name: "params", Type: paramsArr},
		{Name: "rows", Type: types.TInteger},
		{Name: "stack_var", Type: types.TString},
		{Name: "type", Type: totType},
		{Name: "type_args", Type: typeArgsArr},
	}
	inner := types.NewStruct(fields)

	childrenArr.Release()
	dictEntriesArr.Release()
	matchCasesArr.Release()
	paramsArr.Release()
	locArr.Release()
	totType.Release()
	typeArgsArr.Release()

	result := wrapper.Finalize(inner)
	inner.Release()
	return result
}

func locEntryType() *types.Type {
	return types.NewStruct([]types.Field{
		{Name: "column", Type: types.TInteger},
		{Name: "filename", Type: types.TString},
		{Name: "line", Type: types.TInteger},
	})
}

func dictEntrySchema(schema *types.Type) *types.Type {
	f, _ := schema.Inner().FieldByName("dict_entries")
	return f.Type.Elem()
}

func matchCaseSchema(schema *types.Type) *types.Type {
	f, _ := schema.Inner().FieldByName("match_cases")
	return f.Type.Elem()
}

func locSchema(schema *types.Type) *types.Type {
	f, _ := schema.Inner().FieldByName("locations")
	return f.Type.Elem()
}

func locationsValue(entryType *types.Type, locs lmerr.Stack) *values.Value {
	items := make([]*values.Value, len(locs))
	for i, loc := range locs {
		col := values.NewInteger(int64(loc.Column))
		file := values.NewString(loc.File)
		line := values.NewInteger(int64(loc.Line))
		items[i] = values.NewStruct(entryType, []*values.Value{col, file, line})
		col.Release()
		file.Release()
		line.Release()
	}
	arr := values.NewArray(entryType, items)
	for _, it := range items {
		it.Release()
	}
	return arr
}

func locationsFromValue(v *values.Value) lmerr.Stack {
	items := v.Items()
	out := make(lmerr.Stack, len(items))
	for i, it := range items {
		col, _ := it.FieldByName("column")
		file, _ := it.FieldByName("filename")
		line, _ := it.FieldByName("line")
		out[i] = lmerr.Location{File: file.Str(), Line: int(line.Int()), Column: int(col.Int())}
	}
	return out
}

func strArrayValue(ss []string) *values.Value {
	items := make([]*values.Value, len(ss))
	for i, s := range ss {
		items[i] = values.NewString(s)
	}
	v := values.NewArray(types.TString, items)
	for _, it := range items {
		it.Release()
	}
	return v
}

func strArrayFromValue(v *values.Value) []string {
	items := v.Items()
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Str()
	}
	return out
}

// irBuilder threads the shared node schema and the constant pool (literal
// and func-literal back-reference values, deduplicated by pointer identity)
// through a ValueOfIR conversion.
type irBuilder struct {
	schema    *types.Type
	pool      []*values.Value
	poolTypes []*types.Type
}

// poolIndex records v (tagged with its static type typ) in the constant
// pool, deduplicating by pointer identity, and returns its index.
func (b *irBuilder) poolIndex(v *values.Value, typ *types.Type) int {
	if v == nil {
		return -1
	}
	for i, existing := range b.pool {
		if existing == v {
			return i
		}
	}
	b.pool = append(b.pool, v)
	b.poolTypes = append(b.poolTypes, typ)
	return len(b.pool) - 1
}

// ValueOfIR converts an IR node tree into its reflected value form plus the
// constant pool of embedded literal/litBack values it references, in
// first-use order, and each pool entry's static type (a literal's node
// type, or a func-literal's own function type). Use IRFromValue with the
// same pool to invert; the parallel type slice is needed only by callers
// that serialize the pool through a type-directed codec (pkg/loom), not by
// IRFromValue itself.
func ValueOfIR(node *ir.Node) (*values.Value, []*values.Value, []*types.Type) {
	b := &irBuilder{schema: nodeValueType()}
	v := b.convert(node)
	b.schema.Release()
	return v, b.pool, b.poolTypes
}

func releaseAll(vs []*values.Value) {
	for _, v := range vs {
		v.Release()
	}
}

func (b *irBuilder) convert(n *ir.Node) *values.Value {
	bind, caseName, label, msgVar, stackVar, name, kind := "", "", "", "", "", "", ""
	var children []*values.Value
	cols, rows := 0, 0
	var dictEntries []*values.Value
	hasCatch, hasElse, hasFinally, hasLabel := false, false, false, false
	litBackIdx, literalIdx := -1, -1
	var matchCases []*values.Value
	var params []string
	var typeArgs []*values.Value

	switch n.Kind() {
	case ir.KLiteral:
		kind = "literal"
		literalIdx = b.poolIndex(n.Literal(), n.Type())
	case ir.KVariable:
		kind, name = "variable", n.Name()
	case ir.KLet:
		kind, name = "let", n.Name()
		children = []*values.Value{b.convert(n.A())}
	case ir.KAssign:
		kind, name = "assign", n.Name()
		children = []*values.Value{b.convert(n.A())}
	case ir.KBlock:
		kind = "block"
		for _, s := range n.List() {
			children = append(children, b.convert(s))
		}
	case ir.KIf:
		kind = "if"
		hasElse = n.C() != nil
		children = append(children, b.convert(n.A()), b.convert(n.B()))
		if hasElse {
			children = append(children, b.convert(n.C()))
		}
	case ir.KMatch:
		kind = "match"
		children = []*values.Value{b.convert(n.A())}
		caseType := matchCaseSchema(b.schema)
		for _, mc := range n.Cases() {
			body := b.convert(mc.Body)
			cnV := values.NewString(mc.CaseName)
			bindV := values.NewString(mc.Bind)
			entry := values.NewStruct(caseType, []*values.Value{bindV, body, cnV})
			cnV.Release()
			bindV.Release()
			body.Release()
			matchCases = append(matchCases, entry)
		}
	case ir.KWhile:
		kind, label, hasLabel = "while", n.Label(), true
		children = append(children, b.convert(n.A()), b.convert(n.B()))
	case ir.KForArray:
		kind, label, bind = "for_array", n.Label(), n.Bind()
		children = append(children, b.convert(n.A()), b.convert(n.B()))
	case ir.KForSet:
		kind, label, bind = "for_set", n.Label(), n.Bind()
		children = append(children, b.convert(n.A()), b.convert(n.B()))
	case ir.KForDict:
		kind, label, name, bind = "for_dict", n.Label(), n.Name(), n.Bind()
		children = append(children, b.convert(n.A()), b.convert(n.B()))
	case ir.KFuncLit, ir.KAsyncFuncLit:
		if n.Kind() == ir.KFuncLit {
			kind = "func_lit"
		} else {
			kind = "async_func_lit"
		}
		params = n.Params()
		children = []*values.Value{b.convert(n.A())}
		litBackIdx = b.poolIndex(n.LitBack(), n.Type())
	case ir.KCall, ir.KAsyncCall:
		if n.Kind() == ir.KCall {
			kind = "call"
		} else {
			kind = "async_call"
		}
		children = append(children, b.convert(n.A()))
		for _, a := range n.List() {
			children = append(children, b.convert(a))
		}
	case ir.KBuiltin, ir.KPlatform:
		if n.Kind() == ir.KBuiltin {
			kind = "builtin"
		} else {
			kind = "platform"
		}
		name = n.Name()
		for _, ta := range n.TypeArgs() {
			typeArgs = append(typeArgs, ValueOfType(ta))
		}
		for _, a := range n.List() {
			children = append(children, b.convert(a))
		}
	case ir.KReturn:
		kind = "return"
		children = []*values.Value{b.convert(n.A())}
	case ir.KBreak:
		kind, label, hasLabel = "break", n.TargetLabel(), n.HasLabel()
	case ir.KContinue:
		kind, label, hasLabel = "continue", n.TargetLabel(), n.HasLabel()
	case ir.KRaise:
		kind = "raise"
		children = []*values.Value{b.convert(n.A())}
	case ir.KTry:
		kind = "try"
		msgVar, stackVar = n.MsgVar(), n.StackVar()
		hasCatch, hasFinally = n.HasCatch(), n.HasFinally()
		children = []*values.Value{b.convert(n.A())}
		if hasCatch {
			children = append(children, b.convert(n.B()))
		}
		if hasFinally {
			children = append(children, b.convert(n.C()))
		}
	case ir.KNewArray:
		kind = "new_array"
		for _, it := range n.List() {
			children = append(children, b.convert(it))
		}
	case ir.KNewSet:
		kind = "new_set"
		for _, it := range n.List() {
			children = append(children, b.convert(it))
		}
	case ir.KNewDict:
		kind = "new_dict"
		entryType := dictEntrySchema(b.schema)
		for _, e := range n.DictEntries() {
			k := b.convert(e.Key)
			v := b.convert(e.Value)
			pair := values.NewStruct(entryType, []*values.Value{k, v})
			k.Release()
			v.Release()
			dictEntries = append(dictEntries, pair)
		}
	case ir.KNewRef:
		kind = "new_ref"
		children = []*values.Value{b.convert(n.A())}
	case ir.KNewVector:
		kind = "new_vector"
		for _, it := range n.List() {
			children = append(children, b.convert(it))
		}
	case ir.KNewMatrix:
		kind, rows, cols = "new_matrix", n.Rows(), n.Cols()
		for _, it := range n.List() {
			children = append(children, b.convert(it))
		}
	case ir.KStructLit:
		kind = "struct_lit"
		for _, f := range n.List() {
			children = append(children, b.convert(f))
		}
	case ir.KGetField:
		kind, name = "get_field", n.Name()
		children = []*values.Value{b.convert(n.A())}
	case ir.KVariantLit:
		kind, caseName = "variant_lit", n.CaseName()
		children = []*values.Value{b.convert(n.A())}
	case ir.KWrapRecursive:
		kind = "wrap_recursive"
		children = []*values.Value{b.convert(n.A())}
	case ir.KUnwrapRecursive:
		kind = "unwrap_recursive"
		children = []*values.Value{b.convert(n.A())}
	default:
		kind = "unknown"
	}

	childrenArr := values.NewArray(b.schema, children)
	releaseAll(children)

	dictEntriesArr := values.NewArray(dictEntrySchema(b.schema), dictEntries)
	releaseAll(dictEntries)

	matchCasesArr := values.NewArray(matchCaseSchema(b.schema), matchCases)
	releaseAll(matchCases)

	paramsV := strArrayValue(params)

	typeArgsElemType := TypeOfTypesType()
	typeArgsArr := values.NewArray(typeArgsElemType, typeArgs)
	typeArgsElemType.Release()
	releaseAll(typeArgs)

	typeV := ValueOfType(n.Type())
	locsV := locationsValue(locSchema(b.schema), n.Locations())

	fieldVals := map[string]*values.Value{
		"bind":           values.NewString(bind),
		"case_name":      values.NewString(caseName),
		"children":       childrenArr,
		"cols":           values.NewInteger(int64(cols)),
		"dict_entries":   dictEntriesArr,
		"has_catch":      values.NewBoolean(hasCatch),
		"has_else":       values.NewBoolean(hasElse),
		"has_finally":    values.NewBoolean(hasFinally),
		"has_label":      values.NewBoolean(hasLabel),
		"kind":           values.NewString(kind),
		"label":          values.NewString(label),
		"lit_back_index": values.NewInteger(int64(litBackIdx)),
		"literal_index":  values.NewInteger(int64(literalIdx)),
		"locations":      locsV,
		"match_cases":    matchCasesArr,
		"msg_var":        values.NewString(msgVar),
		"name":           values.NewString(name),
		"params":         paramsV,
		"rows":           values.NewInteger(int64(rows)),
		"stack_var":      values.NewString(stackVar),
		"type":           typeV,
		"type_args":      typeArgsArr,
	}

	structType := b.schema.Inner()
	ordered := make([]*values.Value, len(structType.Fields()))
	for i, f := range structType.Fields() {
		ordered[i] = fieldVals[f.Name]
	}
	result := values.NewStruct(structType, ordered)
	for _, v := range fieldVals {
		v.Release()
	}
	return result
}

// IRFromValue reconstructs an IR node tree from its reflected value form and
// the constant pool produced alongside it by ValueOfIR, attaching source
// locations from the embedded array and, for function literals, keeping the
// litBack back-reference to the originating pool entry for byte-faithful
// re-serialization.
func IRFromValue(v *values.Value, pool []*values.Value) (*ir.Node, error) {
	return irFromValueRec(v, pool)
}

func poolGet(pool []*values.Value, idx int64) *values.Value {
	if idx < 0 || int(idx) >= len(pool) {
		return nil
	}
	return pool[idx]
}

func irFromValueRec(v *values.Value, pool []*values.Value) (*ir.Node, error) {
	if v.Kind() != values.KStruct {
		return nil, fmt.Errorf("reflect: IR node value must be a struct, got %v", v.Kind())
	}
	field := func(name string) *values.Value {
		fv, _ := v.FieldByName(name)
		return fv
	}
	kind := field("kind").Str()
	locs := locationsFromValue(field("locations"))

	typV := field("type")
	typ, err := TypeOfValue(typV)
	if err != nil {
		return nil, fmt.Errorf("reflect: node %q type: %w", kind, err)
	}
	defer typ.Release()

	child := func(name string, idx int) (*ir.Node, error) {
		items := field(name).Items()
		if idx >= len(items) {
			return nil, fmt.Errorf("reflect: node %q missing child %d of %q", kind, idx, name)
		}
		return irFromValueRec(items[idx], pool)
	}
	childrenAt := func(idx int) (*ir.Node, error) { return child("children", idx) }

	var n *ir.Node
	switch kind {
	case "literal":
		lit := poolGet(pool, field("literal_index").Int())
		if lit == nil {
			return nil, fmt.Errorf("reflect: literal node missing constant-pool entry")
		}
		n = ir.Literal(typ, lit)
	case "variable":
		n = ir.Variable(typ, field("name").Str())
	case "let":
		init, err := childrenAt(0)
		if err != nil {
			return nil, err
		}
		n = ir.Let(typ, field("name").Str(), init)
		init.Release()
	case "assign":
		val, err := childrenAt(0)
		if err != nil {
			return nil, err
		}
		n = ir.Assign(typ, field("name").Str(), val)
		val.Release()
	case "block":
		items := field("children").Items()
		stmts := make([]*ir.Node, len(items))
		for i, it := range items {
			stmts[i], err = irFromValueRec(it, pool)
			if err != nil {
				return nil, err
			}
		}
		n = ir.Block(typ, stmts)
		for _, s := range stmts {
			s.Release()
		}
	case "if":
		cond, err := childrenAt(0)
		if err != nil {
			return nil, err
		}
		thenB, err := childrenAt(1)
		if err != nil {
			cond.Release()
			return nil, err
		}
		var elseB *ir.Node
		if field("has_else").Bool() {
			elseB, err = childrenAt(2)
			if err != nil {
				cond.Release()
				thenB.Release()
				return nil, err
			}
		}
		n = ir.If(typ, cond, thenB, elseB)
		cond.Release()
		thenB.Release()
		elseB.Release()
	case "match":
		scrutinee, err := childrenAt(0)
		if err != nil {
			return nil, err
		}
		caseItems := field("match_cases").Items()
		cases := make([]ir.MatchCase, len(caseItems))
		for i, ci := range caseItems {
			cnF, _ := ci.FieldByName("case_name")
			bindF, _ := ci.FieldByName("bind")
			bodyF, _ := ci.FieldByName("body")
			body, err := irFromValueRec(bodyF, pool)
			if err != nil {
				scrutinee.Release()
				return nil, err
			}
			cases[i] = ir.MatchCase{CaseName: cnF.Str(), Bind: bindF.Str(), Body: body}
		}
		n = ir.Match(typ, scrutinee, cases)
		scrutinee.Release()
		for _, c := range cases {
			c.Body.Release()
		}
	case "while":
		cond, err := childrenAt(0)
		if err != nil {
			return nil, err
		}
		body, err := childrenAt(1)
		if err != nil {
			cond.Release()
			return nil, err
		}
		n = ir.While(typ, field("label").Str(), cond, body)
		cond.Release()
		body.Release()
	case "for_array", "for_set":
		seq, err := childrenAt(0)
		if err != nil {
			return nil, err
		}
		body, err := childrenAt(1)
		if err != nil {
			seq.Release()
			return nil, err
		}
		if kind == "for_array" {
			n = ir.ForArray(typ, field("label").Str(), field("bind").Str(), seq, body)
		} else {
			n = ir.ForSet(typ, field("label").Str(), field("bind").Str(), seq, body)
		}
		seq.Release()
		body.Release()
	case "for_dict":
		seq, err := childrenAt(0)
		if err != nil {
			return nil, err
		}
		body, err := childrenAt(1)
		if err != nil {
			seq.Release()
			return nil, err
		}
		n = ir.ForDict(typ, field("label").Str(), field("name").Str(), field("bind").Str(), seq, body)
		seq.Release()
		body.Release()
	case "func_lit", "async_func_lit":
		body, err := childrenAt(0)
		if err != nil {
			return nil, err
		}
		litBack := poolGet(pool, field("lit_back_index").Int())
		params := strArrayFromValue(field("params"))
		if kind == "func_lit" {
			n = ir.FuncLit(typ, params, body, litBack)
		} else {
			n = ir.AsyncFuncLit(typ, params, body, litBack)
		}
		body.Release()
	case "call", "async_call":
		items := field("children").Items()
		if len(items) == 0 {
			return nil, fmt.Errorf("reflect: call node missing callee")
		}
		callee, err := irFromValueRec(items[0], pool)
		if err != nil {
			return nil, err
		}
		args := make([]*ir.Node, len(items)-1)
		for i, it := range items[1:] {
			args[i], err = irFromValueRec(it, pool)
			if err != nil {
				callee.Release()
				return nil, err
			}
		}
		if kind == "call" {
			n = ir.Call(typ, callee, args)
		} else {
			n = ir.AsyncCall(typ, callee, args)
		}
		callee.Release()
		for _, a := range args {
			a.Release()
		}
	case "builtin", "platform":
		items := field("children").Items()
		args := make([]*ir.Node, len(items))
		for i, it := range items {
			args[i], err = irFromValueRec(it, pool)
			if err != nil {
				return nil, err
			}
		}
		taItems := field("type_args").Items()
		typeArgs := make([]*types.Type, len(taItems))
		for i, ta := range taItems {
			typeArgs[i], err = TypeOfValue(ta)
			if err != nil {
				return nil, err
			}
		}
		if kind == "builtin" {
			n = ir.Builtin(typ, field("name").Str(), typeArgs, args)
		} else {
			n = ir.Platform(typ, field("name").Str(), typeArgs, args)
		}
		for _, a := range args {
			a.Release()
		}
		for _, ta := range typeArgs {
			ta.Release()
		}
	case "return":
		val, err := childrenAt(0)
		if err != nil {
			return nil, err
		}
		n = ir.Return(typ, val)
		val.Release()
	case "break":
		n = ir.Break(typ, field("label").Str(), field("has_label").Bool())
	case "continue":
		n = ir.Continue(typ, field("label").Str(), field("has_label").Bool())
	case "raise":
		msg, err := childrenAt(0)
		if err != nil {
			return nil, err
		}
		n = ir.Raise(typ, msg)
		msg.Release()
	case "try":
		tryBody, err := childrenAt(0)
		if err != nil {
			return nil, err
		}
		next := 1
		var catchBody, finallyBody *ir.Node
		if field("has_catch").Bool() {
			catchBody, err = childrenAt(next)
			if err != nil {
				tryBody.Release()
				return nil, err
			}
			next++
		}
		if field("has_finally").Bool() {
			finallyBody, err = childrenAt(next)
			if err != nil {
				tryBody.Release()
				catchBody.Release()
				return nil, err
			}
		}
		n = ir.Try(typ, tryBody, field("msg_var").Str(), field("stack_var").Str(), catchBody, finallyBody)
		tryBody.Release()
		catchBody.Release()
		finallyBody.Release()
	case "new_array", "new_set", "new_vector", "struct_lit":
		items := field("children").Items()
		nodes := make([]*ir.Node, len(items))
		for i, it := range items {
			nodes[i], err = irFromValueRec(it, pool)
			if err != nil {
				return nil, err
			}
		}
		switch kind {
		case "new_array":
			n = ir.NewArrayNode(typ, typ.Elem(), nodes)
		case "new_set":
			n = ir.NewSetNode(typ, typ.Elem(), nodes)
		case "new_vector":
			n = ir.NewVectorNode(typ, typ.Elem(), nodes)
		case "struct_lit":
			n = ir.StructLit(typ, nodes)
		}
		for _, nd := range nodes {
			nd.Release()
		}
	case "new_dict":
		items := field("dict_entries").Items()
		entries := make([]ir.DictEntry, len(items))
		for i, it := range items {
			kF, _ := it.FieldByName("key")
			vF, _ := it.FieldByName("value")
			kN, err := irFromValueRec(kF, pool)
			if err != nil {
				return nil, err
			}
			vN, err := irFromValueRec(vF, pool)
			if err != nil {
				kN.Release()
				return nil, err
			}
			entries[i] = ir.DictEntry{Key: kN, Value: vN}
		}
		n = ir.NewDictNode(typ, entries)
		for _, e := range entries {
			e.Key.Release()
			e.Value.Release()
		}
	case "new_ref":
		init, err := childrenAt(0)
		if err != nil {
			return nil, err
		}
		n = ir.NewRefNode(typ, typ.Elem(), init)
		init.Release()
	case "new_matrix":
		items := field("children").Items()
		nodes := make([]*ir.Node, len(items))
		for i, it := range items {
			nodes[i], err = irFromValueRec(it, pool)
			if err != nil {
				return nil, err
			}
		}
		n = ir.NewMatrixNode(typ, typ.Elem(), int(field("rows").Int()), int(field("cols").Int()), nodes)
		for _, nd := range nodes {
			nd.Release()
		}
	case "get_field":
		target, err := childrenAt(0)
		if err != nil {
			return nil, err
		}
		n = ir.GetField(typ, target, field("name").Str())
		target.Release()
	case "variant_lit":
		payload, err := childrenAt(0)
		if err != nil {
			return nil, err
		}
		n = ir.VariantLit(typ, field("case_name").Str(), payload)
		payload.Release()
	case "wrap_recursive":
		inner, err := childrenAt(0)
		if err != nil {
			return nil, err
		}
		n = ir.WrapRecursive(typ, inner)
		inner.Release()
	case "unwrap_recursive":
		inner, err := childrenAt(0)
		if err != nil {
			return nil, err
		}
		n = ir.UnwrapRecursive(typ, inner)
		inner.Release()
	default:
		return nil, fmt.Errorf("reflect: unknown IR node kind %q", kind)
	}

	n.SetLocations(locs)
	return n, nil
}
