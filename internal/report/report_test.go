package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-scan/internal/analysis"
)

func sampleOptions() []analysis.AnalyzedOption {
	return []analysis.AnalyzedOption{
		{Symbol: "AAPL260416C00180000", Type: "call", Strike: 180, Edge: 20,
			Strategy: analysis.StrategyCoveredCall, HasSpreadWarning: true},
		{Symbol: "MSFT260416C00410000", Type: "call", Strike: 410, Edge: 10,
			Strategy: analysis.StrategyCoveredCall},
		{Symbol: "TSLA260416P00240000", Type: "put", Strike: 240, Edge: 6,
			Strategy: analysis.StrategyCashSecuredPut, HasLiquidityWarning: true},
	}
}

func TestSummarize(t *testing.T) {
	t.Run("statistics", func(t *testing.T) {
		s := Summarize(sampleOptions())
		assert.Equal(t, 3, s.Count)
		assert.InDelta(t, 12.0, s.MeanEdge, 1e-9)
		assert.InDelta(t, 10.0, s.MedianEdge, 1e-9)
		assert.Equal(t, 20.0, s.BestEdge)
		assert.Greater(t, s.StdDevEdge, 0.0)
	})

	t.Run("empty scan", func(t *testing.T) {
		assert.Equal(t, Summary{}, Summarize(nil))
	})
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteJSON(sampleOptions(), dir))

	b, err := os.ReadFile(filepath.Join(dir, "options.json"))
	require.NoError(t, err)

	var res Result
	require.NoError(t, json.Unmarshal(b, &res))
	assert.Equal(t, 3, res.Summary.Count)
	assert.Len(t, res.Options, 3)
	assert.False(t, res.GeneratedAt.IsZero())
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteCSV(sampleOptions(), dir))

	f, err := os.Open(filepath.Join(dir, "options.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 3 rows
	assert.Equal(t, "symbol", rows[0][0])
	assert.Equal(t, "AAPL260416C00180000", rows[1][0])
	assert.Equal(t, "S", rows[1][len(rows[1])-1])
	assert.Equal(t, "L", rows[3][len(rows[3])-1])
}
