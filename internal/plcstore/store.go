// Package plcstore provides the operation-source and spam-filter
// collaborators the codec itself never calls directly, plus a SQLite
// mirror-database implementation of each.
package plcstore

import (
	"context"
	"time"

	"github.com/didplc/compress/internal/optree"
)

// Operation is one row of the identity's operation chain: the decoded
// operation_tree plus the bookkeeping fields the codec never inspects.
type Operation struct {
	DID          string
	CID          string
	OperationTree *optree.Node
	Nullified    bool
	Timestamp    time.Time
}

// OperationSource yields an identity's operations ordered by timestamp
// ascending, the ordering Compress requires of its caller.
type OperationSource interface {
	Operations(ctx context.Context, did string, limit int) ([]Operation, error)
}

// SpamFilter reports whether a DID has been flagged. The codec never
// reads it; callers consult it to decide whether to compress a chain at
// all.
type SpamFilter interface {
	IsSpam(ctx context.Context, did string) (bool, error)
}
