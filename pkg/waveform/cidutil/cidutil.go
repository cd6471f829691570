// Package cidutil derives deterministic content identifiers for metadata and
// files. Identical content always yields an identical CID, which makes
// resubmission of the same metadata detectable by CID equality.
package cidutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// CanonicalJSON serializes v into its canonical byte form: snake_case field
// names (via struct tags) and lexicographically ordered keys. Two deep-equal
// values always canonicalize to identical bytes.
func CanonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	// Round-trip through a generic value so encoding/json re-emits object
	// keys in sorted order regardless of struct field order.
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ComputeMetadataCID canonicalizes v and returns the CIDv1 string of its
// SHA2-256 multihash. Pure: no I/O, no hidden state.
func ComputeMetadataCID(v any) (string, error) {
	data, err := CanonicalJSON(v)
	if err != nil {
		return "", err
	}
	return ComputeRawCID(data)
}

// ComputeRawCID returns the CIDv1 string naming the given bytes.
func ComputeRawCID(data []byte) (string, error) {
	builder := cid.V1Builder{Codec: cid.Raw, MhType: multihash.SHA2_256}
	c, err := builder.Sum(data)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// ComputeFileCID returns the CIDv1 string naming the content of f. The
// reader is rewound afterwards so it can be re-read for upload.
func ComputeFileCID(f io.ReadSeeker) (string, error) {
	defer f.Seek(0, io.SeekStart)
	builder := cid.V1Builder{}
	hash, err := multihash.SumStream(f, multihash.SHA2_256, -1)
	if err != nil {
		return "", err
	}
	c, err := builder.Sum(hash)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// ValidateCID recomputes the CID of f and checks it against expectedCID.
func ValidateCID(expectedCID string, f io.ReadSeeker) error {
	computed, err := ComputeFileCID(f)
	if err != nil {
		return err
	}
	if computed != expectedCID {
		return fmt.Errorf("expected cid %s but contents hashed to %s", expectedCID, computed)
	}
	return nil
}
