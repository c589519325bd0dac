package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/patrickmn/go-cache"
)

// OTPStore keeps one-time codes in process memory with explicit TTL
// eviction. Codes are single use; Verify consumes them.
type OTPStore struct {
	codes *cache.Cache
	ttl   time.Duration
}

// NewOTPStore creates a store whose codes expire after ttl.
func NewOTPStore(ttl time.Duration) *OTPStore {
	return &OTPStore{
		codes: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Issue generates a 6-digit code for the phone number, replacing any
// outstanding code.
func (s *OTPStore) Issue(phone string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())
	s.codes.Set(phone, code, s.ttl)
	return code, nil
}

// Verify checks the code for the phone number and consumes it on success.
func (s *OTPStore) Verify(phone, code string) bool {
	v, found := s.codes.Get(phone)
	if !found {
		return false
	}
	if v.(string) != code {
		return false
	}
	s.codes.Delete(phone)
	return true
}
