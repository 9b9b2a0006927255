package uuid

import (
	"crypto/rand"
	"encoding/binary"
	"time"

	googleuuid "github.com/google/uuid"
)

// New generates a new UUIDv7 based on the current timestamp.
// UUIDv7 is time-ordered and suitable for use as database primary keys.
//
// Format (RFC 4122):
// - 48 bits: Unix timestamp in milliseconds
// - 4 bits: version (0111 = 7)
// - 12 bits: random data
// - 2 bits: variant (10)
// - 62 bits: random data
func New() string {
	var uuid [16]byte

	// Set timestamp (48 bits)
	timestamp := uint64(time.Now().UnixMilli())
	binary.BigEndian.PutUint64(uuid[0:8], timestamp<<16)

	// Fill remaining bytes with random data
	if _, err := rand.Read(uuid[6:]); err != nil {
		// Fall back to a random v4 UUID if the system RNG fails
		return googleuuid.NewString()
	}

	// Set version (7) and variant (10) bits
	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	parsed, err := googleuuid.FromBytes(uuid[:])
	if err != nil {
		return googleuuid.NewString()
	}
	return parsed.String()
}
