package fixture

import (
	"fmt"

	gocid "github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"github.com/didplc/compress/internal/optree"
	"github.com/didplc/compress/internal/wire"
)

// ComputeCID computes the CIDv1 (dag-cbor codec, sha2-256 digest) of an
// operation tree's canonical encoding, the same construction
// op_to_cid used to verify an audit log's recorded cid against a
// freshly re-encoded operation.
func ComputeCID(n *optree.Node) (string, error) {
	encoded, err := wire.Marshal(wire.NodeToWire(n))
	if err != nil {
		return "", fmt.Errorf("encoding operation for cid: %w", err)
	}
	mh, err := multihash.Sum(encoded, multihash.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("hashing operation: %w", err)
	}
	c := gocid.NewCidV1(gocid.DagCBOR, mh)
	return c.String(), nil
}
