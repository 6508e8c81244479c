// Package codecerr holds the error kinds the codec surfaces at the
// compress/decompress boundary. They live in their own package so every
// layer (semtag, structdiff, wire, the top-level compress package) can
// construct and test for them without an import cycle back through the
// public package.
package codecerr

import "fmt"

// EncodingFault is malformed binary input, or an unrecognized tag
// payload that cannot be decoded as its declared shape.
type EncodingFault struct {
	Reason string
}

func (e *EncodingFault) Error() string {
	return fmt.Sprintf("encoding fault: %s", e.Reason)
}

// InvalidDiff is a diff that references an index the walk never
// reaches, names a container kind inconsistent with its diff field, or
// carries a structurally ill-formed insert value.
type InvalidDiff struct {
	Index  int
	Reason string
}

func (e *InvalidDiff) Error() string {
	return fmt.Sprintf("invalid diff at index %d: %s", e.Index, e.Reason)
}

// ChainIntegrityFault is raised when a decompressed chain cannot be
// produced, e.g. the Patcher exhausts a diff's entries without visiting
// every index it references.
type ChainIntegrityFault struct {
	OpIndex int
	Reason  string
}

func (e *ChainIntegrityFault) Error() string {
	return fmt.Sprintf("chain integrity fault at operation %d: %s", e.OpIndex, e.Reason)
}
