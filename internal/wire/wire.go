// Package wire converts between the in-memory optree.Node representation
// and the generic Go values fxamacker/cbor/v2 marshals and unmarshals,
// and drives the canonical CBOR encode/decode mode itself.
package wire

import (
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/didplc/compress/internal/codecerr"
	"github.com/didplc/compress/internal/optree"
)

// Mode is the canonical CBOR encode mode shared by every caller in this
// module. Canonical map-key ordering under RFC 7049 sorts by (key
// length, then lexicographic byte value) — exactly the ordering this
// codec's own trees already use — so asking the library for canonical
// mode is sufficient; optree.SortEntries is what keeps our own Node
// trees already in that order going in.
var Mode cbor.EncMode

func init() {
	m, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic("wire: building canonical cbor encode mode: " + err.Error())
	}
	Mode = m
}

// Marshal encodes v (built by NodeToWire or DiffToWire) as canonical CBOR.
func Marshal(v interface{}) ([]byte, error) {
	return Mode.Marshal(v)
}

// Unmarshal decodes CBOR into a generic Go value suitable for WireToNode
// or WireToDiff.
func Unmarshal(data []byte, v interface{}) error {
	return cbor.Unmarshal(data, v)
}

// NodeToWire converts a Node into the plain Go value cbor.Marshal will
// encode. Tagged leaves become cbor.Tag values carrying tag numbers 6-9;
// everything else maps onto CBOR's native map/array/text
// string/byte string/int/float/bool/null kinds.
func NodeToWire(n *optree.Node) interface{} {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case optree.KindMap:
		m := make(map[string]interface{}, len(n.Entries))
		for _, e := range n.Entries {
			m[e.Key] = NodeToWire(e.Value)
		}
		return m
	case optree.KindSeq:
		s := make([]interface{}, len(n.Items))
		for i, it := range n.Items {
			s[i] = NodeToWire(it)
		}
		return s
	case optree.KindText:
		return n.Text
	case optree.KindBytes:
		return n.Bytes
	case optree.KindInt:
		return n.Int
	case optree.KindFloat:
		return n.Float
	case optree.KindBool:
		return n.Bool
	case optree.KindNull:
		return nil
	case optree.KindTagged:
		if n.Tag == 9 {
			return cbor.Tag{Number: n.Tag, Content: n.Text}
		}
		return cbor.Tag{Number: n.Tag, Content: n.Bytes}
	default:
		return nil
	}
}

// WireToNode is NodeToWire's inverse. It accepts both map[string]interface{}
// and map[interface{}]interface{} for map values, since cbor.Unmarshal
// into a bare interface{} produces the latter.
func WireToNode(v interface{}) (*optree.Node, error) {
	switch val := v.(type) {
	case nil:
		return optree.NewNull(), nil
	case bool:
		return optree.NewBool(val), nil
	case string:
		return optree.NewText(val), nil
	case []byte:
		return optree.NewBytes(val), nil
	case int64:
		return optree.NewInt(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, &codecerr.EncodingFault{Reason: "integer exceeds int64 range"}
		}
		return optree.NewInt(int64(val)), nil
	case float64:
		return optree.NewFloat(val), nil
	case []interface{}:
		items := make([]*optree.Node, len(val))
		for i, it := range val {
			n, err := WireToNode(it)
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		return &optree.Node{Kind: optree.KindSeq, Items: items}, nil
	case map[string]interface{}:
		return mapToNode(val)
	case map[interface{}]interface{}:
		conv := make(map[string]interface{}, len(val))
		for k, v := range val {
			ks, ok := k.(string)
			if !ok {
				return nil, &codecerr.EncodingFault{Reason: "map key is not a text string"}
			}
			conv[ks] = v
		}
		return mapToNode(conv)
	case cbor.Tag:
		return tagToNode(val)
	default:
		return nil, &codecerr.EncodingFault{Reason: "unsupported wire value type"}
	}
}

func mapToNode(m map[string]interface{}) (*optree.Node, error) {
	entries := make([]optree.Entry, 0, len(m))
	for k, v := range m {
		n, err := WireToNode(v)
		if err != nil {
			return nil, err
		}
		entries = append(entries, optree.Entry{Key: k, Value: n})
	}
	optree.SortEntries(entries)
	return &optree.Node{Kind: optree.KindMap, Entries: entries}, nil
}

func tagToNode(t cbor.Tag) (*optree.Node, error) {
	if t.Number == 9 {
		s, ok := t.Content.(string)
		if !ok {
			return nil, &codecerr.EncodingFault{Reason: "tag 9 content is not a text string"}
		}
		return optree.NewTagged(t.Number, nil, s), nil
	}
	switch c := t.Content.(type) {
	case []byte:
		return optree.NewTagged(t.Number, c, ""), nil
	case string:
		return optree.NewTagged(t.Number, nil, c), nil
	default:
		return nil, &codecerr.EncodingFault{Reason: "unsupported tag content type"}
	}
}
