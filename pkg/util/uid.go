package util

import (
	"crypto/md5"
	"encoding/json"
	"math/big"

	"github.com/google/uuid"
)

// UIDRoot is the arc for UIDs derived from a UUID (PS3.5 B.2)
const UIDRoot = "2.25."

// NewUID returns a fresh UID built from a random UUID
func NewUID() string {
	return UIDFromUUID(uuid.New())
}

// UIDFromUUID renders u as a decimal integer under the 2.25 root
func UIDFromUUID(u uuid.UUID) string {
	return UIDRoot + new(big.Int).SetBytes(u[:]).String()
}

// HashUID derives a stable UID from the JSON form of value, "" when value
// cannot be marshaled
func HashUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	hash := md5.Sum(raw)
	u, err := uuid.FromBytes(hash[:])
	if err != nil {
		return ""
	}
	return UIDFromUUID(u)
}
