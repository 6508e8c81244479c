// Package semtag is the semantic tag compression layer: it rewrites
// leaf strings of a few well-known shapes (signatures, content hashes,
// public-key identifiers, resource URIs) into compact tagged binary
// forms, and back.
package semtag

import (
	"encoding/base64"
	"strings"

	"github.com/multiformats/go-multibase"

	"github.com/didplc/compress/internal/codecerr"
	"github.com/didplc/compress/internal/optree"
)

// Tag numbers. DAG-CBOR permits only tag 42 (the IPLD link); any other
// tag is unambiguously a compression marker.
const (
	TagSig    uint64 = 6
	TagCID    uint64 = 7
	TagDIDKey uint64 = 8
	TagATURI  uint64 = 9
)

const (
	sigLen        = 86
	sigRawLen     = 64
	cidPrefix     = "bafyrei"
	cidLen        = 59
	didKeyPrefix  = "did:key:"
	atURIPrefix   = "at://"
)

// Compress recursively rewrites every leaf string in n that matches a
// recognized shape into a Tagged leaf. It is idempotent: a leaf already
// Tagged is left untouched.
func Compress(n *optree.Node) *optree.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case optree.KindMap:
		entries := make([]optree.Entry, len(n.Entries))
		for i, e := range n.Entries {
			entries[i] = optree.Entry{Key: e.Key, Value: Compress(e.Value)}
		}
		return &optree.Node{Kind: optree.KindMap, Entries: entries}
	case optree.KindSeq:
		items := make([]*optree.Node, len(n.Items))
		for i, it := range n.Items {
			items[i] = Compress(it)
		}
		return &optree.Node{Kind: optree.KindSeq, Items: items}
	case optree.KindText:
		return compressLeaf(n)
	default:
		return n
	}
}

func compressLeaf(n *optree.Node) *optree.Node {
	s := n.Text

	if strings.HasPrefix(s, didKeyPrefix) {
		_, raw, err := multibase.Decode(s[len(didKeyPrefix):])
		if err == nil {
			return optree.NewTagged(TagDIDKey, raw, "")
		}
		return n
	}

	if strings.HasPrefix(s, atURIPrefix) {
		return optree.NewTagged(TagATURI, nil, s[len(atURIPrefix):])
	}

	if strings.HasPrefix(s, cidPrefix) && len(s) == cidLen {
		_, raw, err := multibase.Decode(s)
		if err == nil {
			return optree.NewTagged(TagCID, raw, "")
		}
		return n
	}

	if len(s) == sigLen {
		if raw, err := base64.RawURLEncoding.DecodeString(s); err == nil && len(raw) == sigRawLen {
			return optree.NewTagged(TagSig, raw, "")
		}
	}

	return n
}

// Decompress is the exact inverse of Compress. An unknown tag number
// passes through unchanged, for forward compatibility with future tag
// assignments.
func Decompress(n *optree.Node) (*optree.Node, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Kind {
	case optree.KindMap:
		entries := make([]optree.Entry, len(n.Entries))
		for i, e := range n.Entries {
			v, err := Decompress(e.Value)
			if err != nil {
				return nil, err
			}
			entries[i] = optree.Entry{Key: e.Key, Value: v}
		}
		return &optree.Node{Kind: optree.KindMap, Entries: entries}, nil
	case optree.KindSeq:
		items := make([]*optree.Node, len(n.Items))
		for i, it := range n.Items {
			v, err := Decompress(it)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return &optree.Node{Kind: optree.KindSeq, Items: items}, nil
	case optree.KindTagged:
		return decompressLeaf(n)
	default:
		return n, nil
	}
}

func decompressLeaf(n *optree.Node) (*optree.Node, error) {
	switch n.Tag {
	case TagSig:
		if len(n.Bytes) != sigRawLen {
			return nil, &codecerr.EncodingFault{Reason: "tag 6 payload is not 64 bytes"}
		}
		return optree.NewText(base64.RawURLEncoding.EncodeToString(n.Bytes)), nil
	case TagCID:
		s, err := multibase.Encode(multibase.Base32, n.Bytes)
		if err != nil {
			return nil, &codecerr.EncodingFault{Reason: "tag 7 payload does not re-encode: " + err.Error()}
		}
		return optree.NewText(s), nil
	case TagDIDKey:
		s, err := multibase.Encode(multibase.Base58BTC, n.Bytes)
		if err != nil {
			return nil, &codecerr.EncodingFault{Reason: "tag 8 payload does not re-encode: " + err.Error()}
		}
		return optree.NewText(didKeyPrefix + s), nil
	case TagATURI:
		return optree.NewText(atURIPrefix + n.Text), nil
	default:
		// Unknown tag: leave as-is, future-compatible.
		return n, nil
	}
}
