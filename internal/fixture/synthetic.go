package fixture

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multicodec"
	"github.com/multiformats/go-varint"

	"github.com/didplc/compress/internal/optree"
)

// GenerateChain builds n synthetic operations for one identity, each
// differing from its predecessor only in the fields a real rotation-key
// chain actually changes: a fresh prev pointer and signature every time,
// every third operation a new rotation key prepended ahead of the
// existing ones, and every fifth operation a new alsoKnownAs URI
// appended. Deterministic for a fixed seed.
func GenerateChain(seed int64, n int) ([]*optree.Node, error) {
	faker := gofakeit.New(uint64(seed))

	rotationKeys := []string{didKey(faker)}
	akas := []string{atURI(faker)}

	ops := make([]*optree.Node, n)
	var prevCID string

	for i := 0; i < n; i++ {
		if i > 0 && i%3 == 0 {
			rotationKeys = append([]string{didKey(faker)}, rotationKeys...)
		}
		if i > 0 && i%5 == 0 {
			akas = append(akas, atURI(faker))
		}

		op := buildOperation(rotationKeys, akas, prevCID, faker)
		ops[i] = op

		cid, err := ComputeCID(op)
		if err != nil {
			return nil, fmt.Errorf("computing cid for synthetic op %d: %w", i, err)
		}
		prevCID = cid
	}
	return ops, nil
}

func buildOperation(rotationKeys, akas []string, prevCID string, faker *gofakeit.Faker) *optree.Node {
	rkItems := make([]*optree.Node, len(rotationKeys))
	for i, k := range rotationKeys {
		rkItems[i] = optree.NewText(k)
	}
	akaItems := make([]*optree.Node, len(akas))
	for i, a := range akas {
		akaItems[i] = optree.NewText(a)
	}

	prev := optree.NewNull()
	if prevCID != "" {
		prev = optree.NewText(prevCID)
	}

	entries := []optree.Entry{
		{Key: "type", Value: optree.NewText("plc_operation")},
		{Key: "rotationKeys", Value: optree.NewSeq(rkItems...)},
		{Key: "alsoKnownAs", Value: optree.NewSeq(akaItems...)},
		{Key: "services", Value: optree.NewMap()},
		{Key: "prev", Value: prev},
		{Key: "sig", Value: optree.NewText(signature(faker))},
	}
	optree.SortEntries(entries)
	return &optree.Node{Kind: optree.KindMap, Entries: entries}
}

// didKey builds a did:key string wrapping a synthetic ed25519 public key:
// a multicodec varint prefix followed by 32 raw bytes, multibase-encoded
// base58btc, the shape semtag.Compress recognizes.
func didKey(faker *gofakeit.Faker) string {
	seedBytes := sha256.Sum256([]byte(faker.LetterN(24)))
	prefix := varint.ToUvarint(uint64(multicodec.Ed25519Pub))
	raw := append(append([]byte(nil), prefix...), seedBytes[:]...)
	s, _ := multibase.Encode(multibase.Base58BTC, raw)
	return "did:key:" + s
}

func atURI(faker *gofakeit.Faker) string {
	return "at://" + faker.Username() + "." + faker.DomainName()
}

// signature returns an 86-char URL-safe base64 string decoding to 64
// raw bytes, the shape semtag.Compress tags as tag 6.
func signature(faker *gofakeit.Faker) string {
	a := sha256.Sum256([]byte(faker.LetterN(32)))
	b := sha256.Sum256([]byte(faker.LetterN(32)))
	raw := append(append([]byte(nil), a[:]...), b[:]...)
	return base64.RawURLEncoding.EncodeToString(raw)
}
