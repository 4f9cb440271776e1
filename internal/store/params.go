package store

import (
	"fmt"
	"strconv"
)

// PositionalArgs orders query parameters keyed "1", "2", ... for $n or ?
// placeholders. Every key from 1 to len(params) must be present.
func PositionalArgs(params map[string]any) ([]any, error) {
	args := make([]any, len(params))
	for i := range args {
		key := strconv.Itoa(i + 1)
		val, ok := params[key]
		if !ok {
			return nil, fmt.Errorf("missing query parameter %s", key)
		}
		args[i] = val
	}
	return args, nil
}
