package onnx

import (
	"encoding/json"
	"fmt"
	"os"
)

// indexer maps a code point to a model token id. Negative entries mark code
// points the model has no token for.
type indexer []int64

func loadIndexer(path string) (indexer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read unicode indexer: %w", err)
	}

	var idx indexer
	if err := json.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIndexer, err)
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrInvalidIndexer)
	}

	return idx, nil
}

// lookup returns the token for r, or false when r has none.
func (idx indexer) lookup(r rune) (int64, bool) {
	if r < 0 || int(r) >= len(idx) {
		return 0, false
	}
	id := idx[r]
	return id, id >= 0
}
