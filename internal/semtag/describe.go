package semtag

import (
	"fmt"

	"github.com/multiformats/go-multicodec"
	"github.com/multiformats/go-varint"
)

// DescribeDIDKey reports the multicodec name encoded in the leading
// varint of a did:key's decoded bytes (e.g. "ed25519-pub"). It is used
// only by the CLI's inspect command — the codec itself never parses the
// multicodec prefix, it stores and restores the raw bytes verbatim.
func DescribeDIDKey(raw []byte) string {
	code, n, err := varint.FromUvarint(raw)
	if err != nil || n == 0 {
		return "unknown"
	}
	name := multicodec.Code(code).String()
	if name == "" {
		return fmt.Sprintf("unregistered codec 0x%x", code)
	}
	return name
}
