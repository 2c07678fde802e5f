package tsresolve

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// orderedEntry is one key/value pair of a JSON object in declaration order.
type orderedEntry struct {
	key string
	raw json.RawMessage
}

// decodeOrderedObject decodes a JSON object while preserving the order its
// keys appear in. encoding/json maps lose that order, but both tsconfig
// "paths" aliases and package.json "exports" maps are matched first-entry-wins
// in declaration order.
func decodeOrderedObject(data []byte) ([]orderedEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var entries []orderedEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		entries = append(entries, orderedEntry{key: key, raw: raw})
	}

	return entries, nil
}
