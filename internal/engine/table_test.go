package engine

import (
	"strings"
	"testing"
)

func mustBuildTable(t *testing.T, csv string) *Table {
	t.Helper()
	var rows [][]string
	for _, line := range strings.Split(strings.Trim(csv, "\n"), "\n") {
		fields := strings.Split(line, "|")
		for i, f := range fields {
			fields[i] = strings.TrimSpace(f)
		}
		rows = append(rows, fields)
	}
	tbl, err := buildTable(rows)
	if err != nil {
		t.Fatalf("buildTable: %v", err)
	}
	return tbl
}

func evalCell(t *testing.T, tbl *Table, addr string) string {
	t.Helper()
	v, err := tbl.EvaluateAddress(addr, nil)
	if err != nil {
		t.Fatalf("evaluating %s: %v", addr, err)
	}
	return v.ToText()
}

func TestTableLoadRejectsRaggedRows(t *testing.T) {
	rows := [][]string{{"a", "b"}, {"c"}}
	if _, err := buildTable(rows); err == nil {
		t.Fatal("expected LoadError for mismatched column counts")
	}
}

func TestLiteralPassthrough(t *testing.T) {
	tbl := mustBuildTable(t, "hello|world")
	if got := evalCell(t, tbl, "A1"); got != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestSimpleArithmeticFormula(t *testing.T) {
	tbl := mustBuildTable(t, "10|20|=A1+B1")
	if got := evalCell(t, tbl, "C1"); got != "30" {
		t.Fatalf("got %q", got)
	}
}

func TestSumOverRangeFlattensAndCoercesNonNumericToZero(t *testing.T) {
	tbl := mustBuildTable(t, "1|x|3|=sum(A1:C1)")
	if got := evalCell(t, tbl, "D1"); got != "4" {
		t.Fatalf("got %q", got)
	}
}

func TestLabelReferenceZeroRowsTargetsSelf(t *testing.T) {
	tbl := mustBuildTable(t, "!Total\n99\n=@total<0>")
	if got := evalCell(t, tbl, "A3"); got != "Total" {
		t.Fatalf("got %q", got)
	}
}

func TestLabelReferenceResolvesToDataRow(t *testing.T) {
	tbl := mustBuildTable(t, "!Total\n99\n=@total<1>")
	if got := evalCell(t, tbl, "A3"); got != "99" {
		t.Fatalf("got %q", got)
	}
}

func TestLabelReferenceOffsetClampsToLastRow(t *testing.T) {
	tbl := mustBuildTable(t, "!total|\n1|\n2|=@total<50>")
	if got := evalCell(t, tbl, "B3"); got != "2" {
		t.Fatalf("got %q", got)
	}
}

func TestCopyAboveResult(t *testing.T) {
	tbl := mustBuildTable(t, "=1+1\n=A^")
	if got := evalCell(t, tbl, "A2"); got != "2" {
		t.Fatalf("got %q", got)
	}
}

func TestCopyAboveResultErrorsOnFirstRow(t *testing.T) {
	tbl := mustBuildTable(t, "=A^")
	if _, err := tbl.EvaluateAddress("A1", nil); err == nil {
		t.Fatal("expected eval error in row 1")
	}
}

func TestCopyLastResultSkipsBlankCells(t *testing.T) {
	tbl := mustBuildTable(t, "5|x\n|x\n|=A^v")
	if got := evalCell(t, tbl, "B3"); got != "5" {
		t.Fatalf("got %q", got)
	}
}

func TestCopyLastResultEmptyWhenNoneFound(t *testing.T) {
	tbl := mustBuildTable(t, "|=A^v")
	if got := evalCell(t, tbl, "B1"); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestCopyAndIncrementsFormula(t *testing.T) {
	tbl := mustBuildTable(t, "=concat(\"t_\", text(incfrom(1)))\n=^^")
	if got := evalCell(t, tbl, "A2"); got != "t_2" {
		t.Fatalf("got %q", got)
	}
}

func TestDivideByZeroIsEvalError(t *testing.T) {
	tbl := mustBuildTable(t, "0|=1/A1")
	if _, err := tbl.EvaluateAddress("B1", nil); err == nil {
		t.Fatal("expected eval error for division by zero")
	}
}

func TestConcatAndTextBuiltins(t *testing.T) {
	tbl := mustBuildTable(t, `=concat("a", "b", text(1))`)
	if got := evalCell(t, tbl, "A1"); got != "ab1" {
		t.Fatalf("got %q", got)
	}
}

func TestSplitBuiltinProducesCollection(t *testing.T) {
	tbl := mustBuildTable(t, `=sum(split("1,2,3", ","))`)
	if got := evalCell(t, tbl, "A1"); got != "6" {
		t.Fatalf("got %q", got)
	}
}

func TestGteLte(t *testing.T) {
	tbl := mustBuildTable(t, "=gte(2,1)|=lte(2,1)")
	if got := evalCell(t, tbl, "A1"); got != "true" {
		t.Fatalf("got %q", got)
	}
	if got := evalCell(t, tbl, "B1"); got != "false" {
		t.Fatalf("got %q", got)
	}
}

func TestTextIdempotence(t *testing.T) {
	tbl := mustBuildTable(t, `=text(text(5))`)
	if got := evalCell(t, tbl, "A1"); got != "5" {
		t.Fatalf("got %q", got)
	}
}
