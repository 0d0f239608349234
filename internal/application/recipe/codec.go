package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/chefai/chefai/internal/domain/recipe"
)

// storageVersion tags every collection and ratings value written.
const storageVersion = 1

// decodeList reads a versioned value {"version":1,"<field>":[...]} or the
// legacy bare array. Unknown versions are refused.
func decodeList[T any](data []byte, field string) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	items := []T{}

	if len(trimmed) == 0 {
		return items, nil
	}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return []T{}, fmt.Errorf("decode legacy %s: %w", field, err)
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return []T{}, fmt.Errorf("decode %s: %w", field, err)
	}

	var version int
	if err := json.Unmarshal(envelope["version"], &version); err != nil || version != storageVersion {
		return []T{}, fmt.Errorf("%w: %s version %s", recipe.ErrUnsupportedVersion, field, envelope["version"])
	}

	if raw, ok := envelope[field]; ok {
		if err := json.Unmarshal(raw, &items); err != nil {
			return []T{}, fmt.Errorf("decode %s: %w", field, err)
		}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// encodeList writes the versioned form of items.
func encodeList[T any](items []T, field string) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]interface{}{
		"version": storageVersion,
		field:     json.RawMessage(payload),
	})
}
