package hashmod

import (
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Values generated by the gitserver client for buckets 1..64.
var hashModOracle = []struct {
	key     string
	buckets string
}{
	{
		key: "foobar",
		buckets: "0 1 0 1 4 3 2 1 0 9 7 9 12 9 9 1 " +
			"16 9 12 9 9 7 15 9 19 25 9 9 26 9 21 " +
			"17 18 33 9 9 17 31 12 9 6 9 22 29 9 15 " +
			"9 33 16 19 33 25 8 9 29 9 12 55 0 9 46 21 9 17",
	},
	{
		key: "github.com/sourcegraph/sourcegraph",
		buckets: "0 0 1 0 3 4 6 4 1 8 10 4 11 6 13 12 " +
			"1 10 0 8 13 10 3 4 13 24 19 20 4 28 3 28 " +
			"10 18 13 28 22 0 37 28 15 34 4 32 28 26 30 28 " +
			"13 38 1 24 41 46 43 20 19 4 20 28 29 34 55 60",
	},
}

func TestHashModOracle(t *testing.T) {
	is := assert.New(t)
	t.Parallel()

	for _, tc := range hashModOracle {
		fields := strings.Fields(tc.buckets)
		is.Len(fields, 64)

		for i, field := range fields {
			expected, err := strconv.Atoi(field)
			is.NoError(err)

			bucket, err := HashMod(tc.key, i+1)
			is.NoError(err)
			is.Equal(expected, bucket, "key=%s buckets=%d", tc.key, i+1)
		}
	}
}

func TestHashModInvalidBuckets(t *testing.T) {
	is := assert.New(t)
	t.Parallel()

	for _, buckets := range []int{0, -1, -64} {
		bucket, err := HashMod("foobar", buckets)
		is.ErrorIs(err, ErrInvalidArgument)
		is.Zero(bucket)
	}
}

func TestHashModRange(t *testing.T) {
	is := assert.New(t)
	t.Parallel()

	keys := []string{"", "a", "foobar", "github.com/gorilla/mux", "Github.com/Gorilla/Mux", "über/repo"}
	for _, key := range keys {
		one, err := HashMod(key, 1)
		is.NoError(err)
		is.Zero(one)

		for buckets := 1; buckets <= 257; buckets++ {
			bucket, err := HashMod(key, buckets)
			is.NoError(err)
			is.GreaterOrEqual(bucket, 0)
			is.Less(bucket, buckets)

			again, _ := HashMod(key, buckets)
			is.Equal(bucket, again)
		}
	}
}

func TestSum64(t *testing.T) {
	is := assert.New(t)
	t.Parallel()

	is.Equal(uint64(4060265690780417169), Sum64("foobar"))
	is.Equal(uint64(14931137089353396988), Sum64("github.com/sourcegraph/sourcegraph"))

	// Above 1<<63: a signed reading would flip the bucket.
	v := Sum64("github.com/gorilla/mux")
	is.Equal(uint64(18415279788091273713), v)
	bucket, err := HashMod("github.com/gorilla/mux", 5)
	is.NoError(err)
	is.Equal(3, bucket)
	bucket, err = HashMod("github.com/gorilla/mux", 10)
	is.NoError(err)
	is.Equal(3, bucket)
}

func TestHashModNoNormalization(t *testing.T) {
	is := assert.New(t)
	t.Parallel()

	is.NotEqual(Sum64("github.com/gorilla/mux"), Sum64("Github.com/Gorilla/Mux"))
	is.NotEqual(Sum64("foobar"), Sum64(" foobar"))
}

func TestHashModConcurrent(t *testing.T) {
	is := assert.New(t)
	t.Parallel()

	expected, err := HashMod("github.com/sourcegraph/sourcegraph", 64)
	is.NoError(err)

	var wg sync.WaitGroup
	results := make([]int, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = HashMod("github.com/sourcegraph/sourcegraph", 64)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		is.Equal(expected, got)
	}
}
