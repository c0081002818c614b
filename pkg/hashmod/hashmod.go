package hashmod

import (
	"crypto/md5"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a bucket count or backend list cannot
// produce a bucket.
var ErrInvalidArgument = errors.New("hashmod: invalid argument")

// Sum64 returns the first 8 bytes of the MD5 digest of key, read as a
// big-endian unsigned integer.
//
// The value must stay bit-for-bit identical to the one computed by gitserver
// clients in other languages, so it is never truncated or sign-extended.
func Sum64(key string) uint64 {
	sum := md5.Sum([]byte(key))
	return binary.BigEndian.Uint64(sum[:8])
}

// HashMod maps key to a bucket in [0, buckets).
// The modulo is computed on uint64 values. It returns an error wrapping
// ErrInvalidArgument when buckets is lower than 1.
func HashMod(key string, buckets int) (int, error) {
	if buckets < 1 {
		return 0, fmt.Errorf("%w: bucket count must be >= 1, got %d", ErrInvalidArgument, buckets)
	}

	return int(Sum64(key) % uint64(buckets)), nil
}
