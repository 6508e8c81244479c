package wire

import (
	"sort"

	"github.com/didplc/compress/internal/codecerr"
	"github.com/didplc/compress/internal/index"
	"github.com/didplc/compress/internal/optree"
	"github.com/didplc/compress/internal/structdiff"
)

// DiffToWire renders a Diff as the map[string]interface{} that becomes
// one element of the chain's encoded blob array. Every Node value in d
// is expected to already be semantic-tag compressed by the caller.
//
// Shapes:
//   "u": [[idx, valueWire], ...]
//   "d": [idx, ...]
//   "i": [[idx, value], ...] where value is [key_string, subtreeWire] for
//        a Map-container insert, or subtreeWire directly for a
//        Sequence-container insert
//   "p": [[idx, valueWire], ...], one entry per prepended item, in order
func DiffToWire(d *structdiff.Diff) map[string]interface{} {
	w := make(map[string]interface{})

	if len(d.Updates) > 0 {
		idxs := sortedKeys(d.Updates)
		rows := make([]interface{}, len(idxs))
		for i, idx := range idxs {
			rows[i] = []interface{}{idx, NodeToWire(d.Updates[idx])}
		}
		w["u"] = rows
	}

	if len(d.Deletes) > 0 {
		idxs := make([]int, 0, len(d.Deletes))
		for idx := range d.Deletes {
			idxs = append(idxs, idx)
		}
		sort.Ints(idxs)
		rows := make([]interface{}, len(idxs))
		for i, idx := range idxs {
			rows[i] = idx
		}
		w["d"] = rows
	}

	if len(d.Inserts) > 0 {
		idxs := make([]int, 0, len(d.Inserts))
		for idx := range d.Inserts {
			idxs = append(idxs, idx)
		}
		sort.Ints(idxs)
		var rows []interface{}
		for _, idx := range idxs {
			for _, ins := range d.Inserts[idx] {
				if ins.HasKey {
					rows = append(rows, []interface{}{idx, []interface{}{ins.Key, NodeToWire(ins.Value)}})
				} else {
					rows = append(rows, []interface{}{idx, NodeToWire(ins.Value)})
				}
			}
		}
		w["i"] = rows
	}

	if len(d.Prepends) > 0 {
		idxs := make([]int, 0, len(d.Prepends))
		for idx := range d.Prepends {
			idxs = append(idxs, idx)
		}
		sort.Ints(idxs)
		var rows []interface{}
		for _, idx := range idxs {
			for _, v := range d.Prepends[idx] {
				rows = append(rows, []interface{}{idx, NodeToWire(v)})
			}
		}
		w["p"] = rows
	}

	return w
}

// WireToDiff is DiffToWire's inverse. Node values carried in the
// returned Diff are not yet semantic-tag decompressed; the caller runs
// semtag.Decompress over them.
//
// An insert row only says "[idx, value]" on the wire; whether value is
// a (key, subtree) pair or a bare subtree depends on whether old's node
// at idx is a Map or a Sequence, so old is required to resolve inserts
// the same way the Patcher's container-aware walk would.
func WireToDiff(w map[string]interface{}, old *optree.Node) (*structdiff.Diff, error) {
	d := structdiff.NewDiff()
	flat := index.FlatIndex(old)

	if raw, ok := w["u"]; ok {
		rows, err := asSlice(raw, "u")
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			pair, err := asSlice(r, "u row")
			if err != nil {
				return nil, err
			}
			if len(pair) != 2 {
				return nil, &codecerr.EncodingFault{Reason: "malformed update row"}
			}
			idx, err := asInt(pair[0])
			if err != nil {
				return nil, err
			}
			v, err := WireToNode(pair[1])
			if err != nil {
				return nil, err
			}
			d.Updates[idx] = v
		}
	}

	if raw, ok := w["d"]; ok {
		rows, err := asSlice(raw, "d")
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			idx, err := asInt(r)
			if err != nil {
				return nil, err
			}
			d.Deletes[idx] = struct{}{}
		}
	}

	if raw, ok := w["i"]; ok {
		rows, err := asSlice(raw, "i")
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			row, err := asSlice(r, "i row")
			if err != nil {
				return nil, err
			}
			if len(row) != 2 {
				return nil, &codecerr.EncodingFault{Reason: "malformed insert row"}
			}
			idx, err := asInt(row[0])
			if err != nil {
				return nil, err
			}
			container, ok := flat[idx]
			if !ok {
				return nil, &codecerr.EncodingFault{Reason: "insert references an index outside old"}
			}

			if container.Kind == optree.KindMap {
				pair, err := asSlice(row[1], "map insert value")
				if err != nil {
					return nil, err
				}
				if len(pair) != 2 {
					return nil, &codecerr.EncodingFault{Reason: "malformed map insert pair"}
				}
				key, ok := pair[0].(string)
				if !ok {
					return nil, &codecerr.EncodingFault{Reason: "map insert key is not a text string"}
				}
				v, err := WireToNode(pair[1])
				if err != nil {
					return nil, err
				}
				d.Inserts[idx] = append(d.Inserts[idx], structdiff.Insert{HasKey: true, Key: key, Value: v})
			} else {
				v, err := WireToNode(row[1])
				if err != nil {
					return nil, err
				}
				d.Inserts[idx] = append(d.Inserts[idx], structdiff.Insert{Value: v})
			}
		}
	}

	if raw, ok := w["p"]; ok {
		rows, err := asSlice(raw, "p")
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			row, err := asSlice(r, "p row")
			if err != nil {
				return nil, err
			}
			if len(row) != 2 {
				return nil, &codecerr.EncodingFault{Reason: "malformed prepend row"}
			}
			idx, err := asInt(row[0])
			if err != nil {
				return nil, err
			}
			v, err := WireToNode(row[1])
			if err != nil {
				return nil, err
			}
			d.Prepends[idx] = append(d.Prepends[idx], v)
		}
	}

	return d, nil
}

// AsStringMap coerces a decoded CBOR map value — map[string]interface{}
// or map[interface{}]interface{} — into map[string]interface{}, for
// callers pulling a diff map out of a decoded blob array.
func AsStringMap(v interface{}) (map[string]interface{}, error) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, &codecerr.EncodingFault{Reason: "map key is not a text string"}
			}
			out[ks] = val
		}
		return out, nil
	default:
		return nil, &codecerr.EncodingFault{Reason: "expected a map value"}
	}
}

func sortedKeys(m map[int]*optree.Node) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func asSlice(v interface{}, what string) ([]interface{}, error) {
	s, ok := v.([]interface{})
	if !ok {
		return nil, &codecerr.EncodingFault{Reason: "expected an array for " + what}
	}
	return s, nil
}

func asInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	default:
		return 0, &codecerr.EncodingFault{Reason: "expected an integer index"}
	}
}
