package waveform

import (
	"fmt"

	hashids "github.com/speps/go-hashids/v2"
)

// Numeric entity ids are exposed on the public surface in an obfuscated
// hash form. Encoding is stable: the same numeric id always encodes to the
// same string.
const (
	hashIDSalt      = "wvfrm-entity-id"
	hashIDMinLength = 5
)

var hashID = mustHashID()

func mustHashID() *hashids.HashID {
	hd := hashids.NewData()
	hd.Salt = hashIDSalt
	hd.MinLength = hashIDMinLength
	h, err := hashids.NewWithData(hd)
	if err != nil {
		panic(err)
	}
	return h
}

// EncodeHashID encodes a numeric entity id for the public surface.
func EncodeHashID(id int64) (string, error) {
	if id < 0 {
		return "", fmt.Errorf("cannot encode negative id %d", id)
	}
	return hashID.EncodeInt64([]int64{id})
}

// DecodeHashID decodes a public hash id back to its numeric form.
func DecodeHashID(encoded string) (int64, error) {
	ids, err := hashID.DecodeInt64WithError(encoded)
	if err != nil {
		return 0, fmt.Errorf("invalid hash id %q: %w", encoded, err)
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("invalid hash id %q", encoded)
	}
	return ids[0], nil
}
