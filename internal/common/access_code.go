package common

import (
	"crypto/rand"
	"math/big"
)

const accessCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// AccessCodeLength is the length of generated private-group access codes.
const AccessCodeLength = 6

// GenerateAccessCode returns a random access code for a private group.
// The alphabet omits easily-confused characters (0/O, 1/I).
func GenerateAccessCode() (string, error) {
	code := make([]byte, AccessCodeLength)
	max := big.NewInt(int64(len(accessCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = accessCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
