package core

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// Two random bytes hex-encode to the 4-character room code clients type in.
const codeBytes = 2

func newRoomCode() string {
	b := make([]byte, codeBytes)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return strings.ToUpper(hex.EncodeToString(b))
}
