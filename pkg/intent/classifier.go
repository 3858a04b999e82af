package intent

import (
	"fmt"
	"sync/atomic"
)

// Classifier maps text to an Intent.
type Classifier interface {
	Classify(text string) Intent
}

// Result is a classification with the per-category scores behind it.
type Result struct {
	Intent Intent         `json:"intent"`
	Scores map[Intent]int `json:"scores"`
}

// KeywordClassifier scores text against a keyword Table. It is safe for
// concurrent use; Swap may run while Classify calls are in flight, and each
// call sees exactly one table.
type KeywordClassifier struct {
	table atomic.Pointer[compiledTable]
}

// NewKeywordClassifier compiles table. A nil table uses DefaultTable.
func NewKeywordClassifier(table *Table) (*KeywordClassifier, error) {
	if table == nil {
		table = DefaultTable()
	}
	compiled, err := table.compile("")
	if err != nil {
		return nil, err
	}
	c := &KeywordClassifier{}
	c.table.Store(compiled)
	return c, nil
}

// NewDefaultClassifier returns a classifier over DefaultTable.
func NewDefaultClassifier() *KeywordClassifier {
	c, err := NewKeywordClassifier(DefaultTable())
	if err != nil {
		panic(fmt.Sprintf("intent: default table invalid: %v", err))
	}
	return c
}

// Classify returns the best-scoring intent for text.
func (c *KeywordClassifier) Classify(text string) Intent {
	return c.Evaluate(text).Intent
}

// Evaluate classifies text and reports every category's score.
func (c *KeywordClassifier) Evaluate(text string) Result {
	scores := c.table.Load().score(text)

	best, bestScore := Mixed, 0
	for _, in := range Priority {
		if scores[in] > bestScore {
			best, bestScore = in, scores[in]
		}
	}
	return Result{Intent: best, Scores: scores}
}

// Swap compiles table and makes it the active table. On error the previous
// table stays active.
func (c *KeywordClassifier) Swap(table *Table) error {
	compiled, err := table.compile("")
	if err != nil {
		return err
	}
	c.table.Store(compiled)
	return nil
}
