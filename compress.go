// Package compress is the top-level chain codec: it composes the
// flat-index walker, semantic tag layer, and structural differ/patcher
// into two entry points, Compress and Decompress, that turn a sequence
// of did:plc operation trees into a single binary blob and back.
package compress

import (
	"github.com/didplc/compress/internal/codecerr"
	"github.com/didplc/compress/internal/optree"
	"github.com/didplc/compress/internal/semtag"
	"github.com/didplc/compress/internal/structdiff"
	"github.com/didplc/compress/internal/wire"
)

// Node is a decoded operation tree (a Map/Sequence/Leaf variant value).
// Entry, Kind and the NewXxx constructors mirror how a caller decoding
// raw did:plc operations builds one.
type (
	Node  = optree.Node
	Entry = optree.Entry
	Kind  = optree.Kind
)

const (
	KindMap    = optree.KindMap
	KindSeq    = optree.KindSeq
	KindText   = optree.KindText
	KindBytes  = optree.KindBytes
	KindInt    = optree.KindInt
	KindFloat  = optree.KindFloat
	KindBool   = optree.KindBool
	KindNull   = optree.KindNull
	KindTagged = optree.KindTagged
)

func NewMap(entries ...Entry) *Node { return optree.NewMap(entries...) }
func NewSeq(items ...*Node) *Node   { return optree.NewSeq(items...) }
func NewText(s string) *Node        { return optree.NewText(s) }
func NewBytes(b []byte) *Node       { return optree.NewBytes(b) }
func NewInt(i int64) *Node          { return optree.NewInt(i) }
func NewFloat(f float64) *Node      { return optree.NewFloat(f) }
func NewBool(b bool) *Node          { return optree.NewBool(b) }
func NewNull() *Node                { return optree.NewNull() }

// Error kinds surfaced at the compress/decompress boundary.
type (
	EncodingFault       = codecerr.EncodingFault
	InvalidDiff         = codecerr.InvalidDiff
	ChainIntegrityFault = codecerr.ChainIntegrityFault
)

// Compress encodes ops (chain order, first element first) into a single
// blob: the semantically-compressed first operation followed by one
// structural diff per subsequent operation.
func Compress(ops []*Node) ([]byte, error) {
	if len(ops) == 0 {
		return wire.Marshal([]interface{}{})
	}

	elements := make([]interface{}, 0, len(ops))
	elements = append(elements, wire.NodeToWire(semtag.Compress(ops[0])))

	for i := 1; i < len(ops); i++ {
		d := structdiff.ComputeDiff(ops[i-1], ops[i])
		compressValuesInPlace(d, semtag.Compress)
		elements = append(elements, wire.DiffToWire(d))
	}

	return wire.Marshal(elements)
}

// Decompress is Compress's inverse.
func Decompress(blob []byte) ([]*Node, error) {
	var raw []interface{}
	if err := wire.Unmarshal(blob, &raw); err != nil {
		return nil, &codecerr.EncodingFault{Reason: "blob is not a valid cbor array: " + err.Error()}
	}
	if len(raw) == 0 {
		return nil, nil
	}

	first, err := wire.WireToNode(raw[0])
	if err != nil {
		return nil, err
	}
	op0, err := semtag.Decompress(first)
	if err != nil {
		return nil, err
	}

	ops := make([]*Node, 1, len(raw))
	ops[0] = op0

	for i := 1; i < len(raw); i++ {
		m, err := wire.AsStringMap(raw[i])
		if err != nil {
			return nil, err
		}
		d, err := wire.WireToDiff(m, ops[i-1])
		if err != nil {
			return nil, err
		}
		if err := decompressValuesInPlace(d, semtag.Decompress); err != nil {
			return nil, err
		}

		next, err := structdiff.ApplyDiff(ops[i-1], d)
		if err != nil {
			return nil, &codecerr.ChainIntegrityFault{OpIndex: i, Reason: err.Error()}
		}
		ops = append(ops, next)
	}

	return ops, nil
}

// compressValuesInPlace and decompressValuesInPlace run the semantic tag
// layer over every Node value a Diff carries, without touching any
// index. Compress applies semtag.Compress to diff-carried values only
// after the diff has been computed on the uncompressed trees, since
// indices are defined on the original structure.
func compressValuesInPlace(d *structdiff.Diff, f func(*Node) *Node) {
	for idx, v := range d.Updates {
		d.Updates[idx] = f(v)
	}
	for idx, ins := range d.Inserts {
		for i := range ins {
			ins[i].Value = f(ins[i].Value)
		}
		d.Inserts[idx] = ins
	}
	for idx, items := range d.Prepends {
		for i := range items {
			items[i] = f(items[i])
		}
		d.Prepends[idx] = items
	}
}

func decompressValuesInPlace(d *structdiff.Diff, f func(*Node) (*Node, error)) error {
	for idx, v := range d.Updates {
		nv, err := f(v)
		if err != nil {
			return err
		}
		d.Updates[idx] = nv
	}
	for idx, ins := range d.Inserts {
		for i := range ins {
			nv, err := f(ins[i].Value)
			if err != nil {
				return err
			}
			ins[i].Value = nv
		}
		d.Inserts[idx] = ins
	}
	for idx, items := range d.Prepends {
		for i := range items {
			nv, err := f(items[i])
			if err != nil {
				return err
			}
			items[i] = nv
		}
		d.Prepends[idx] = items
	}
	return nil
}
