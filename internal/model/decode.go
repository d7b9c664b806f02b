package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"maps"
	"strconv"
	"strings"
)

var errNotObject = errors.New("not a JSON object")

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	if !isObject(data) {
		return nil, errNotObject
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func decodeField(raw map[string]json.RawMessage, key string, dst any) {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return
	}
	_ = json.Unmarshal(v, dst)
}

func isObject(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && v[0] == '{'
}

// decodeString accepts a string or a bare number (legacy numeric ids).
func decodeString(v json.RawMessage) string {
	var s string
	if json.Unmarshal(v, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(v, &n) == nil {
		return n.String()
	}
	return ""
}

// decodeBool accepts a bool, "true"/"false" in any case, or a number.
func decodeBool(v json.RawMessage) bool {
	var b bool
	if json.Unmarshal(v, &b) == nil {
		return b
	}
	var s string
	if json.Unmarshal(v, &s) == nil {
		b, _ := strconv.ParseBool(strings.TrimSpace(s))
		return b
	}
	var f float64
	if json.Unmarshal(v, &f) == nil {
		return f != 0
	}
	return false
}

// extraFields returns the entries of raw whose keys are not known, or nil.
func extraFields(raw map[string]json.RawMessage, known map[string]bool) map[string]json.RawMessage {
	var extra map[string]json.RawMessage
	for k, v := range raw {
		if known[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}
	return extra
}

// marshalWithExtra encodes v and adds the extra fields it does not already
// carry.
func marshalWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return body, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(body, &merged); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		it.Extra = maps.Clone(it.Extra)
		out[i] = it
	}
	return out
}

func clonePool(items []PoolItem) []PoolItem {
	if items == nil {
		return nil
	}
	out := make([]PoolItem, len(items))
	for i, it := range items {
		it.Extra = maps.Clone(it.Extra)
		out[i] = it
	}
	return out
}
