// Package fixture decodes tree instances from a textual representation
// for tests, and can generate synthetic chains and compute their
// content-addressed identifiers for fixture seeding.
package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/didplc/compress/internal/optree"
)

// ParseTree decodes one JSON value into a tree. JSON objects and arrays
// map onto Map and Sequence; a JSON number with no fractional part and
// no exponent decodes as KindInt, matching hand-written literal trees
// (e.g. `{"k": "a", "n": 1}`).
func ParseTree(data []byte) (*optree.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parsing fixture tree: %w", err)
	}
	return jsonToNode(v)
}

// ParseChain decodes a JSON array of trees, the textual form of a whole
// operation chain.
func ParseChain(data []byte) ([]*optree.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing fixture chain: %w", err)
	}
	ops := make([]*optree.Node, len(raw))
	for i, v := range raw {
		n, err := jsonToNode(v)
		if err != nil {
			return nil, err
		}
		ops[i] = n
	}
	return ops, nil
}

func jsonToNode(v interface{}) (*optree.Node, error) {
	switch val := v.(type) {
	case nil:
		return optree.NewNull(), nil
	case bool:
		return optree.NewBool(val), nil
	case string:
		return optree.NewText(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return optree.NewInt(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("fixture number %q: %w", val, err)
		}
		return optree.NewFloat(f), nil
	case []interface{}:
		items := make([]*optree.Node, len(val))
		for i, it := range val {
			n, err := jsonToNode(it)
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		return &optree.Node{Kind: optree.KindSeq, Items: items}, nil
	case map[string]interface{}:
		entries := make([]optree.Entry, 0, len(val))
		for k, v := range val {
			n, err := jsonToNode(v)
			if err != nil {
				return nil, err
			}
			entries = append(entries, optree.Entry{Key: k, Value: n})
		}
		optree.SortEntries(entries)
		return &optree.Node{Kind: optree.KindMap, Entries: entries}, nil
	default:
		return nil, fmt.Errorf("unsupported fixture json value %T", v)
	}
}
