// Package fallback holds the static, hand-authored substitute payloads each
// task unit falls back to when extraction or the model call itself fails
// softly. Payloads are embedded at build time and validated once at process
// start; a malformed payload is a programmer error and panics immediately.
package fallback

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed *.json
var files embed.FS

var payloads = mustLoad()

func mustLoad() map[string][]byte {
	entries, err := files.ReadDir(".")
	if err != nil {
		panic(fmt.Sprintf("fallback: read embedded payloads: %v", err))
	}

	loaded := make(map[string][]byte, len(entries))
	for _, entry := range entries {
		data, err := files.ReadFile(entry.Name())
		if err != nil {
			panic(fmt.Sprintf("fallback: read %s: %v", entry.Name(), err))
		}
		var check map[string]any
		if err := json.Unmarshal(data, &check); err != nil {
			panic(fmt.Sprintf("fallback: %s is not a valid payload: %v", entry.Name(), err))
		}
		name := entry.Name()
		loaded[name[:len(name)-len(".json")]] = data
	}
	return loaded
}

// Payload returns a fresh copy of the named task unit's exemplar so callers
// can mutate it freely.
func Payload(name string) map[string]any {
	data, ok := payloads[name]
	if !ok {
		panic(fmt.Sprintf("fallback: no payload registered for %q", name))
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		panic(fmt.Sprintf("fallback: decode %q: %v", name, err))
	}
	return payload
}

// List returns a fresh copy of one list-valued key from the named payload.
func List(name, key string) []any {
	value, ok := Payload(name)[key].([]any)
	if !ok {
		panic(fmt.Sprintf("fallback: payload %q has no list %q", name, key))
	}
	return value
}

// Object returns a fresh copy of one object-valued key from the named payload.
func Object(name, key string) map[string]any {
	value, ok := Payload(name)[key].(map[string]any)
	if !ok {
		panic(fmt.Sprintf("fallback: payload %q has no object %q", name, key))
	}
	return value
}
