package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "grid.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadFileBuildsAddressAndLabelIndexes(t *testing.T) {
	path := writeFixture(t, "!cost_threshold | !adjusted_cost\n"+
		"10000           | 50797.65\n"+
		"=text(gte(@adjusted_cost<1>, @cost_threshold<1>)) | unused\n")

	tbl, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 3, tbl.NumRows)
	require.Equal(t, 2, tbl.NumColumns)

	cell, ok := tbl.CellByLabel("cost_threshold")
	require.True(t, ok)
	require.Equal(t, 1, cell.Row)
	require.Equal(t, 1, cell.Col)

	v, err := tbl.EvaluateAddress("A3", nil)
	require.NoError(t, err)
	require.Equal(t, "true", v.ToText())
}

func TestLoadFileRejectsRowLengthMismatch(t *testing.T) {
	path := writeFixture(t, "a|b|c\nd|e\n")

	_, err := LoadFile(path)
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadFileMissingPath(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	require.Error(t, err)
}

func TestEndToEndScenarioAdjustedCostBelowThreshold(t *testing.T) {
	path := writeFixture(t, "!cost_threshold|!adjusted_cost\n"+
		"51000|50797.65\n"+
		"=text(gte(@adjusted_cost<1>, @cost_threshold<1>))|unused\n")

	tbl, err := LoadFile(path)
	require.NoError(t, err)

	v, err := tbl.EvaluateAddress("A3", nil)
	require.NoError(t, err)
	require.Equal(t, "false", v.ToText())
}
