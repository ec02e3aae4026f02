package extraction

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc/iter"

	"github.com/Veraticus/the-spice-must-parse/internal/model"
)

// ProgressFunc is called once per finished text with the number done so far.
// Calls are serialized.
type ProgressFunc func(done, total int)

// ProcessBatch extracts candidates from independent texts in parallel and
// keeps only those that pass Validate. Output follows input order.
func (e *Engine) ProcessBatch(texts []string) []model.Transaction {
	return e.ProcessBatchWithProgress(texts, nil)
}

// ProcessBatchWithProgress is ProcessBatch with a progress callback.
func (e *Engine) ProcessBatchWithProgress(texts []string, progress ProgressFunc) []model.Transaction {
	var valid []model.Transaction
	for _, txns := range e.ProcessBatchGrouped(texts, progress) {
		valid = append(valid, txns...)
	}
	return valid
}

// ProcessBatchGrouped is ProcessBatchWithProgress without flattening: the
// i-th result holds the valid candidates of texts[i].
func (e *Engine) ProcessBatchGrouped(texts []string, progress ProgressFunc) [][]model.Transaction {
	var (
		mu   sync.Mutex
		done int
	)

	mapper := iter.Mapper[string, []model.Transaction]{MaxGoroutines: e.workers}
	return mapper.Map(texts, func(text *string) []model.Transaction {
		txns := e.processSafely(*text)
		if progress != nil {
			mu.Lock()
			done++
			progress(done, len(texts))
			mu.Unlock()
		}

		valid := txns[:0]
		for _, txn := range txns {
			if e.Validate(txn) {
				valid = append(valid, txn)
			}
		}
		return valid
	})
}

// processSafely isolates a single text so that one bad input cannot take the batch down.
func (e *Engine) processSafely(text string) (txns []model.Transaction) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Skipping text after extraction panic", "error", fmt.Sprint(r))
			txns = nil
		}
	}()
	return e.ProcessText(text)
}
