package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewLocalID produces a client-side identifier of the form
// {prefix}_{unix-ms}_{random}. Uniqueness rests on the timestamp plus
// five random bytes and is probabilistic, not guaranteed: there is no
// collision check. Suitable for local references only, never for
// entities the backend owns.
func NewLocalID(prefix string) string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		// rand failure leaves the timestamp as the only discriminator.
		return fmt.Sprintf("%s_%d_%010x", prefix, time.Now().UnixMilli(), time.Now().UnixNano())
	}
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), hex.EncodeToString(buf))
}
