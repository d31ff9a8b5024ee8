package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// suffixAlphabet avoids ambiguous characters (0/O, 1/l/I) since usernames
// end up in URLs people retype.
const (
	suffixAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"
	suffixLength   = 5
)

// allocateUsername derives a handle from the local part of the email. On a
// collision it appends one random suffix and returns without re-checking:
// a second collision is possible but vanishingly unlikely, and keeping the
// allocator to a single store round trip is the documented trade-off.
func (s *AuthService) allocateUsername(ctx context.Context, email string) (string, error) {
	username := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		username = email[:at]
	}
	username = strings.ToLower(username)

	taken, err := s.Store.Users().UsernameExists(ctx, username)
	if err != nil {
		return "", fmt.Errorf("probe username %q: %w", username, err)
	}
	if !taken {
		return username, nil
	}

	suffix, err := randomSuffix(suffixLength)
	if err != nil {
		return "", err
	}
	return username + suffix, nil
}

func randomSuffix(length int) (string, error) {
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(suffixAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generate random suffix: %w", err)
		}
		out[i] = suffixAlphabet[n.Int64()]
	}
	return string(out), nil
}
