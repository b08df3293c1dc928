package auth

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewTokenID identifies one issued access token.
func NewTokenID() string {
	return uuid.NewString()
}

// GenerateState creates the random OAuth state value.
func GenerateState() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
