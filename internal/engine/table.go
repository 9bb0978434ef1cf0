package engine

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	labelPrefix   = '!'
	formulaPrefix = '='
)

// Cell is an immutable tabular entry, grounded in the reference
// implementation's Cell (original_source/src/spreadsheets/cell.rs) and
// adapted to the teacher's plain-struct-with-address-index style seen in
// worksheet.go. A Cell never mutates after Load: the table context is
// read-only once built, matching spec.md §5's "no locking required"
// invariant.
type Cell struct {
	Row     int
	Col     int
	Address string
	Source  string
}

// IsLabel reports whether this cell's source begins with '!'.
func (c *Cell) IsLabel() bool {
	return strings.HasPrefix(c.Source, string(labelPrefix))
}

// IsFormula reports whether this cell's source begins with '='.
func (c *Cell) IsFormula() bool {
	return strings.HasPrefix(strings.TrimSpace(c.Source), string(formulaPrefix))
}

// LabelName returns the lower-cased label name for a label cell, used as
// the lookup key. Label matching is case-folded on both write and lookup,
// per spec.md §9 Open Question #3.
func (c *Cell) LabelName() string {
	return strings.ToLower(c.LabelText())
}

// LabelText returns the label cell's name with its leading '!' stripped,
// in its original case — this is what the cell renders as when it is
// itself the target of a reference, since the lower-casing rule is about
// lookup comparison, not stored display text.
func (c *Cell) LabelText() string {
	return strings.TrimPrefix(c.Source, string(labelPrefix))
}

// Table is the in-memory, read-only grid a loaded file becomes: ordered
// cells plus two lookup indexes, following the teacher's StringTable/
// WorksheetTable interning style in string.go and worksheet.go, simplified
// down to a single table instead of a named collection of them.
type Table struct {
	Cells      [][]*Cell // row-major, 1-indexed by convention (Cells[0] unused)
	NumRows    int
	NumColumns int
	addressIdx map[string]*Cell
	labelIdx   map[string]*Cell

	// exprCache holds the parsed expression for each formula cell, keyed
	// by address, populated on first evaluation. It plays the same role
	// the teacher's FormulaTable.astCache does in formula.go — avoid
	// re-lexing and re-parsing a cell's source on every reference to it —
	// simplified down to a plain per-cell cache since this table has no
	// worksheets or named ranges to track alongside the AST.
	exprCache map[string]Expression
}

// LoadFile reads a pipe-delimited tabular text file into a Table. Every
// row must have the same number of fields; a mismatch is a LoadError, per
// spec.md §7. Each field is trimmed of leading/trailing whitespace before
// becoming a Cell's Source.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(loadErrorf("cannot open %q: %v", path, err), "loading %s", path)
	}
	defer f.Close()

	var rows [][]string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Split(line, "|")
		for i, field := range fields {
			fields[i] = strings.TrimSpace(field)
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	return buildTable(rows)
}

func buildTable(rows [][]string) (*Table, error) {
	t := &Table{
		addressIdx: make(map[string]*Cell),
		labelIdx:   make(map[string]*Cell),
		exprCache:  make(map[string]Expression),
	}
	if len(rows) == 0 {
		return t, nil
	}

	numCols := len(rows[0])
	t.NumColumns = numCols
	t.NumRows = len(rows)
	t.Cells = make([][]*Cell, t.NumRows+1)

	for i, fields := range rows {
		if len(fields) != numCols {
			return nil, loadErrorf("row %d has %d columns, expected %d", i+1, len(fields), numCols)
		}
		row := i + 1
		t.Cells[row] = make([]*Cell, numCols+1)
		for j, field := range fields {
			col := j + 1
			addr := columnToLetters(col) + strconv.Itoa(row)
			cell := &Cell{Row: row, Col: col, Address: addr, Source: field}
			t.Cells[row][col] = cell
			t.addressIdx[addr] = cell
			if cell.IsLabel() {
				t.labelIdx[cell.LabelName()] = cell // last write wins, §9 decision #1
			}
		}
	}
	return t, nil
}

func (t *Table) CellByAddress(addr string) (*Cell, bool) {
	c, ok := t.addressIdx[addr]
	return c, ok
}

func (t *Table) CellByLabel(name string) (*Cell, bool) {
	c, ok := t.labelIdx[strings.ToLower(name)]
	return c, ok
}

// EvaluateAddress evaluates the cell at addr. A literal cell's value is
// its source text; a label cell's value is its label name rendered as
// text (labels are addressable data too, not just formula anchors); a
// formula cell is lexed, parsed, and evaluated with a Context rooted at
// its own position. memo, when non-nil, caches results within a single
// render pass — an optional optimization the reference design permits
// but does not require (spec.md §9), grounded in the teacher's
// CalculationStack completed/processing bookkeeping in sheet.go.
func (t *Table) EvaluateAddress(addr string, memo map[string]*Value) (Value, error) {
	if memo != nil {
		if v, ok := memo[addr]; ok {
			return *v, nil
		}
	}
	cell, ok := t.CellByAddress(addr)
	if !ok {
		return Value{}, evalErrorf("no such cell %q", addr)
	}

	v, err := t.evaluateCell(cell, memo)
	if err != nil {
		return Value{}, err
	}
	if memo != nil {
		memo[addr] = &v
	}
	return v, nil
}

func (t *Table) evaluateCell(cell *Cell, memo map[string]*Value) (Value, error) {
	switch {
	case cell.IsFormula():
		expr, cached := t.exprCache[cell.Address]
		if !cached {
			tokens, err := Tokenize(cell.Source)
			if err != nil {
				return Value{}, err
			}
			parsed, err := Parse(tokens)
			if err != nil {
				return Value{}, err
			}
			expr = parsed
			t.exprCache[cell.Address] = expr
		}
		ctx := &Context{
			Row:           cell.Row,
			Col:           cell.Col,
			ColumnLetters: columnToLetters(cell.Col),
			Table:         t,
			Memo:          memo,
		}
		return expr.Eval(ctx)
	case cell.IsLabel():
		return StringValue(cell.LabelText()), nil
	default:
		return StringValue(cell.Source), nil
	}
}

// Render evaluates every cell row-major and returns the grid of rendered
// text, ready for the renderer package to align into columns.
func (t *Table) Render() ([][]string, error) {
	memo := make(map[string]*Value)
	grid := make([][]string, 0, t.NumRows)
	for row := 1; row <= t.NumRows; row++ {
		line := make([]string, 0, t.NumColumns)
		for col := 1; col <= t.NumColumns; col++ {
			addr := columnToLetters(col) + strconv.Itoa(row)
			v, err := t.EvaluateAddress(addr, memo)
			if err != nil {
				return nil, errors.Wrapf(err, "evaluating %s", addr)
			}
			line = append(line, v.ToText())
		}
		grid = append(grid, line)
	}
	return grid, nil
}
