package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/mauv0809/pingpong-ladder/internal/ladder"
	"golang.org/x/crypto/argon2"
)

const (
	saltBytes    = 16
	keyBytes     = 32
	argonTime    = 2
	argonMemory  = 19 * 1024
	argonThreads = 1
)

// HashCredential derives an argon2id digest of secret with a fresh random
// salt. Hash and salt are hex encoded.
func HashCredential(secret string) (ladder.Credential, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return ladder.Credential{}, fmt.Errorf("generate salt: %w", err)
	}
	return ladder.Credential{
		Hash: hex.EncodeToString(derive(secret, salt)),
		Salt: hex.EncodeToString(salt),
	}, nil
}

// VerifyCredential reports whether secret matches the stored digest.
func VerifyCredential(secret, hash, salt string) bool {
	rawSalt, err := hex.DecodeString(salt)
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(hash)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(derive(secret, rawSalt), want) == 1
}

func derive(secret string, salt []byte) []byte {
	return argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, keyBytes)
}
