package engine

import (
	"strconv"
	"strings"
)

// callBuiltin dispatches a FunctionExpr by name, mirroring the teacher's
// BuiltInFunctions.Call switch in builtin.go. The three copy operations
// are reached the same way as named builtins even though a user can never
// type their names directly — the parser only ever constructs them from
// the `^`, `^v` and `^^` tokens.
func callBuiltin(name string, args []Expression, ctx *Context) (Value, error) {
	switch name {
	case "sum":
		return builtinSum(args, ctx)
	case "gte":
		return builtinCompare(args, ctx, func(a, b float64) bool { return a >= b })
	case "lte":
		return builtinCompare(args, ctx, func(a, b float64) bool { return a <= b })
	case "text":
		return builtinText(args, ctx)
	case "split":
		return builtinSplit(args, ctx)
	case "concat":
		return builtinConcat(args, ctx)
	case "incfrom":
		return builtinIncfrom(args, ctx)
	case "copy_above_result":
		return builtinCopyAboveResult(args, ctx)
	case "copy_last_result":
		return builtinCopyLastResult(args, ctx)
	case "copy_and_increments_formula":
		return builtinCopyAndIncrementsFormula(ctx)
	default:
		return Value{}, evalErrorf("unknown function %q", name)
	}
}

// builtinSum flattens every argument (a bare value, or a Collection from a
// range/split) and coerces each leaf to a number, falling back to 0 for a
// non-numeric string leaf rather than failing — confirmed by the reference
// evaluator. sum() with no arguments is 0.
func builtinSum(args []Expression, ctx *Context) (Value, error) {
	total := 0.0
	for _, arg := range args {
		v, err := arg.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		for _, leaf := range v.Flatten() {
			total += leaf.ToNumber()
		}
	}
	return NumberValue(total), nil
}

func builtinCompare(args []Expression, ctx *Context, cmp func(a, b float64) bool) (Value, error) {
	if len(args) != 2 {
		return Value{}, evalErrorf("expected exactly 2 arguments")
	}
	left, err := args[0].Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	right, err := args[1].Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	result := cmp(left.ToNumber(), right.ToNumber())
	if result {
		return StringValue("true"), nil
	}
	return StringValue("false"), nil
}

// builtinText is a no-op formatter kept for parity with the reference
// implementation: output is always textual already, so text(x) just
// forces evaluation and re-renders it as a string.
func builtinText(args []Expression, ctx *Context) (Value, error) {
	if len(args) != 1 {
		return Value{}, evalErrorf("text expects exactly 1 argument")
	}
	v, err := args[0].Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	return StringValue(v.ToText()), nil
}

func builtinSplit(args []Expression, ctx *Context) (Value, error) {
	if len(args) != 2 {
		return Value{}, evalErrorf("split expects exactly 2 arguments")
	}
	strVal, err := args[0].Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	delimVal, err := args[1].Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	parts := strings.Split(strVal.ToText(), delimVal.ToText())
	items := make([]Value, len(parts))
	for i, part := range parts {
		tokens, err := Tokenize(part)
		if err != nil {
			return Value{}, err
		}
		expr, err := Parse(tokens)
		if err != nil {
			return Value{}, err
		}
		v, err := expr.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		items[i] = v
	}
	return CollectionValue(items), nil
}

func builtinConcat(args []Expression, ctx *Context) (Value, error) {
	var b strings.Builder
	for _, arg := range args {
		v, err := arg.Eval(ctx)
		if err != nil {
			return Value{}, err
		}
		b.WriteString(v.ToText())
	}
	return StringValue(b.String()), nil
}

// builtinIncfrom is a marker in plain evaluation: it just evaluates its
// argument. Its row/argument shifting only happens when the formula
// containing it is re-lexed in increment-aware mode, which rewrites the
// literal number token before the parser ever sees it.
func builtinIncfrom(args []Expression, ctx *Context) (Value, error) {
	if len(args) != 1 {
		return Value{}, evalErrorf("incfrom expects exactly 1 argument")
	}
	v, err := args[0].Eval(ctx)
	if err != nil {
		return Value{}, err
	}
	return NumberValue(v.ToNumber()), nil
}

func builtinCopyAboveResult(args []Expression, ctx *Context) (Value, error) {
	if len(args) != 1 {
		return Value{}, evalErrorf("copy_above_result expects exactly 1 argument")
	}
	colRef, ok := args[0].(ColumnRefExpr)
	if !ok {
		return Value{}, evalErrorf("copy_above_result requires a column reference argument")
	}
	if ctx.Row == 1 {
		return Value{}, evalErrorf("copy_above_result cannot be used in row 1")
	}
	addr := colRef.Column + strconv.Itoa(ctx.Row-1)
	return ctx.Table.EvaluateAddress(addr, ctx.Memo)
}

func builtinCopyLastResult(args []Expression, ctx *Context) (Value, error) {
	if len(args) != 1 {
		return Value{}, evalErrorf("copy_last_result expects exactly 1 argument")
	}
	colRef, ok := args[0].(ColumnRefExpr)
	if !ok {
		return Value{}, evalErrorf("copy_last_result requires a column reference argument")
	}
	for row := ctx.Table.NumRows; row >= 1; row-- {
		addr := colRef.Column + strconv.Itoa(row)
		cell, ok := ctx.Table.CellByAddress(addr)
		if !ok {
			continue
		}
		if strings.TrimSpace(cell.Source) == "" {
			continue
		}
		return ctx.Table.EvaluateAddress(addr, ctx.Memo)
	}
	return StringValue(""), nil
}

// builtinCopyAndIncrementsFormula re-lexes the source of the cell directly
// above the one currently being evaluated with every cell-reference row
// and incfrom(...) argument bumped by one, parses the result, and
// evaluates it in the context of the *current* cell — so a relative
// reference inside the copied formula still resolves against the row
// actually being rendered, not the row it was copied from. When the cell
// above is itself a "^^" cell, the walk continues upward until it reaches
// a concrete formula k rows up, which is then re-lexed with increment k,
// so a chain of "^^" cells shifts by one more row per step.
func builtinCopyAndIncrementsFormula(ctx *Context) (Value, error) {
	var tokens []Token
	for k := 1; ; k++ {
		if ctx.Row-k < 1 {
			return Value{}, evalErrorf("copy_and_increments_formula cannot be used in row 1")
		}
		addr := ctx.ColumnLetters + strconv.Itoa(ctx.Row-k)
		above, ok := ctx.Table.CellByAddress(addr)
		if !ok {
			return Value{}, evalErrorf("cell above not found: %s", addr)
		}
		if !above.IsFormula() {
			return Value{}, evalErrorf("copy_and_increments_formula can only refer to a cell holding a formula")
		}
		var err error
		tokens, err = TokenizeIncrement(above.Source, k)
		if err != nil {
			return Value{}, err
		}
		if len(tokens) != 1 || tokens[0].Type != TokenCopyAndIncrementsFormula {
			break
		}
	}
	expr, err := Parse(tokens)
	if err != nil {
		return Value{}, err
	}
	return expr.Eval(ctx)
}
