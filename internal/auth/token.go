package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// newResetToken returns an opaque single-use password-reset token.
func newResetToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}

	// Fallback to timestamp if crypto/rand is unavailable.
	return fmt.Sprintf("%x", time.Now().UnixNano())
}
