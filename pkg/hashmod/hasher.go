package hashmod

// Hasher generates an unsigned 64 bit hash of a repository name.
// Shards are picked by taking the hash modulo the shard count.
type Hasher func(key string) uint64

// MD5 is the Hasher shared with remote gitserver clients.
var MD5 Hasher = Sum64

// Bucket returns the shard index of key. shards must be greater than 0.
func (fn Hasher) Bucket(key string, shards uint64) uint64 {
	return fn(key) % shards
}
