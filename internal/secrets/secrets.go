// Package secrets produces the random identifiers used for client credentials
// and bearer tokens.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Generate returns a URL-safe token carrying byteLength bytes of entropy from
// the system's secure random source. An exhausted random source is a fatal
// configuration error, so it panics rather than returning an error.
func Generate(byteLength int) string {
	if byteLength <= 0 {
		panic(fmt.Sprintf("secrets.Generate: invalid byte length %d", byteLength))
	}
	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		panic(fmt.Sprintf("secrets.Generate: rand.Read: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}
