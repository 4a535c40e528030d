// internal/daily/daily.go
//
// Daily challenge seeding. Every game started as a daily challenge on the
// same UTC date, with the same length and color count, gets the same secret.
// The seed is HMAC-SHA256(salt, "YYYY-MM-DD") so codes cannot be predicted
// without the server's salt.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"
)

const layout = "2006-01-02"

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(layout)
}

// Today is DateKey for the current time.
func Today() string { return DateKey(time.Now()) }

// ParseKey validates a YYYY-MM-DD key and returns it normalized.
func ParseKey(s string) (string, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", fmt.Errorf("daily: bad date %q, want YYYY-MM-DD", s)
	}
	return DateKey(t), nil
}

// Rand returns a random source fully determined by salt and date key.
func Rand(dateKey, salt string) *rand.Rand {
	sum := digest(dateKey, salt)
	return rand.New(rand.NewPCG(
		binary.BigEndian.Uint64(sum[:8]),
		binary.BigEndian.Uint64(sum[8:16]),
	))
}

func digest(dateKey, salt string) []byte {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(dateKey))
	return h.Sum(nil)
}
