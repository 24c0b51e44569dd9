package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpressionFilter(t *testing.T) {
	ctx := context.Background()
	symbols := []string{"AAPL", "MSFT"}

	baseFilters := func(expr string) Filters {
		f := DefaultFilters()
		f.Expression = expr
		return f
	}

	t.Run("empty expression keeps everything", func(t *testing.T) {
		ef, err := compileFilter(DefaultFilters())
		require.NoError(t, err)
		assert.Nil(t, ef)

		ok, err := ef.keep(&AnalyzedOption{})
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("narrows a scan", func(t *testing.T) {
		scanner := NewScanner(scanUniverse(), newTestAnalyzer())

		results, err := scanner.Search(ctx, symbols, baseFilters("volume > 1000"), nil)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "AAPL260416C00180000", results[0].Symbol)

		results, err = scanner.Search(ctx, symbols, baseFilters("edge >= 1000"), nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("greek vocabulary", func(t *testing.T) {
		scanner := NewScanner(scanUniverse(), newTestAnalyzer())

		results, err := scanner.Search(ctx, symbols, baseFilters("delta > 0 && assignmentProbability <= 100"), nil)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("syntax error fails the search up front", func(t *testing.T) {
		scanner := NewScanner(scanUniverse(), newTestAnalyzer())

		_, err := scanner.Search(ctx, symbols, baseFilters("edge >= &&"), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidFilterExpression)
	})

	t.Run("non-boolean result rejects the contract", func(t *testing.T) {
		ef, err := compileFilter(baseFilters("edge + 1"))
		require.NoError(t, err)

		ok, err := ef.keep(&AnalyzedOption{Edge: 10})
		assert.Error(t, err)
		assert.False(t, ok)
	})
}
