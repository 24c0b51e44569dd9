package analysis

import (
	"errors"
	"fmt"

	"github.com/Knetic/govaluate"
)

// Typed errors allow callers and tests to detect failure categories
// without string matching.
var (
	ErrInvalidFilterExpression = errors.New("invalid filter expression")
)

// exprFilter wraps a compiled govaluate expression applied per
// contract on top of the numeric filter bounds.
type exprFilter struct {
	expr *govaluate.EvaluableExpression
}

// compileFilter parses the optional expression in f. An empty
// expression compiles to a nil filter that keeps everything.
func compileFilter(f Filters) (*exprFilter, error) {
	if f.Expression == "" {
		return nil, nil
	}
	expr, err := govaluate.NewEvaluableExpression(f.Expression)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilterExpression, err)
	}
	return &exprFilter{expr: expr}, nil
}

// keep evaluates the expression against one analyzed contract. The
// expression must yield a boolean; anything else counts as a reject.
func (ef *exprFilter) keep(opt *AnalyzedOption) (bool, error) {
	if ef == nil {
		return true, nil
	}
	result, err := ef.expr.Evaluate(exprParams(opt))
	if err != nil {
		return false, err
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("%w: result %v is not boolean", ErrInvalidFilterExpression, result)
	}
	return b, nil
}

// exprParams exposes the metric vocabulary available to expressions.
func exprParams(opt *AnalyzedOption) map[string]any {
	return map[string]any{
		"edge":                  opt.Edge,
		"moneyness":             opt.Moneyness,
		"spread":                opt.BidAskSpreadPercent,
		"last":                  opt.Last,
		"volume":                float64(opt.Volume),
		"openInterest":          float64(opt.OpenInterest),
		"iv":                    opt.IV,
		"delta":                 opt.Greeks.Delta,
		"theta":                 opt.Greeks.Theta,
		"vega":                  opt.Greeks.Vega,
		"annualizedReturn":      opt.AnnualizedReturn,
		"assignmentProbability": opt.AssignmentProbability,
		"daysToExpiration":      opt.DaysToExpiration,
	}
}
