package services

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// ============================================================
// OTP Service - one-time passcode challenges
// ============================================================

// OTPOutcome is the result of a verification attempt
type OTPOutcome int

const (
	OTPAccepted OTPOutcome = iota
	OTPWrongCode
	OTPExpired
	OTPAttemptsExhausted
	OTPNotFound
)

func (o OTPOutcome) String() string {
	switch o {
	case OTPAccepted:
		return "accepted"
	case OTPWrongCode:
		return "wrong_code"
	case OTPExpired:
		return "expired"
	case OTPAttemptsExhausted:
		return "attempts_exhausted"
	case OTPNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// otpEntry is a single challenge. Fields are mutated only while holding
// entry.mu; the owning map slot is guarded by OTPService.mu.
type otpEntry struct {
	mu           sync.Mutex
	code         string
	createdAt    time.Time
	expiresAt    time.Time
	attemptsLeft int
}

// OTPService owns all challenges; no other component touches entries.
// Same-key issue/verify serialize on the per-entry lock, different keys
// only contend on the short map lookup.
type OTPService struct {
	mu      sync.Mutex
	entries map[string]*otpEntry

	ttl         time.Duration
	maxAttempts int
	codeLength  int
	now         func() time.Time
}

// NewOTPService creates a new OTP service. One instance is created at
// service start and injected wherever challenges are needed.
func NewOTPService(ttl time.Duration, maxAttempts, codeLength int) *OTPService {
	return &OTPService{
		entries:     make(map[string]*otpEntry),
		ttl:         ttl,
		maxAttempts: maxAttempts,
		codeLength:  codeLength,
		now:         time.Now,
	}
}

// Issue generates a fresh fixed-width numeric code for the key,
// discarding any prior challenge for it. The swap takes only the map
// lock: a verify racing the swap still holds the old entry's lock, so
// it orders before the reissue, and evict's identity check keeps it
// from touching the fresh entry. The code is returned to the caller
// for delivery; the store never sends anything itself.
func (s *OTPService) Issue(key string) (string, error) {
	code, err := generateSecureCode(s.codeLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	now := s.now()
	entry := &otpEntry{
		code:         code,
		createdAt:    now,
		expiresAt:    now.Add(s.ttl),
		attemptsLeft: s.maxAttempts,
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()

	return code, nil
}

// Verify checks a candidate code against the live challenge for the key.
// Accepted consumes the challenge; wrong codes decrement the remaining
// attempts; once exhausted the store locks and never reveals whether a
// later code would have matched.
func (s *OTPService) Verify(key, candidate string) OTPOutcome {
	entry := s.acquire(key)
	if entry == nil {
		return OTPNotFound
	}
	defer entry.mu.Unlock()

	if s.now().After(entry.expiresAt) {
		s.evict(key, entry)
		return OTPExpired
	}

	if entry.attemptsLeft <= 0 {
		return OTPAttemptsExhausted
	}

	if subtle.ConstantTimeCompare([]byte(entry.code), []byte(candidate)) != 1 {
		entry.attemptsLeft--
		return OTPWrongCode
	}

	s.evict(key, entry)
	return OTPAccepted
}

// AttemptsLeft reports the remaining attempts for a live challenge.
// Returns 0, false when no challenge exists.
func (s *OTPService) AttemptsLeft(key string) (int, bool) {
	entry := s.acquire(key)
	if entry == nil {
		return 0, false
	}
	defer entry.mu.Unlock()

	if s.now().After(entry.expiresAt) {
		s.evict(key, entry)
		return 0, false
	}
	return entry.attemptsLeft, true
}

// Sweep evicts expired challenges and returns how many it removed.
// Purely a memory-bound optimization; lazy expiry on access already
// guarantees correctness without it.
func (s *OTPService) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// acquire returns the current entry for key with its lock held, or nil.
// The re-check closes the window where the entry is superseded between
// the map read and the lock acquisition.
func (s *OTPService) acquire(key string) *otpEntry {
	for {
		s.mu.Lock()
		entry, ok := s.entries[key]
		s.mu.Unlock()
		if !ok {
			return nil
		}

		entry.mu.Lock()

		s.mu.Lock()
		current := s.entries[key]
		s.mu.Unlock()
		if current == entry {
			return entry
		}
		entry.mu.Unlock()
	}
}

// evict removes the entry if it is still the current one for the key
func (s *OTPService) evict(key string, entry *otpEntry) {
	s.mu.Lock()
	if s.entries[key] == entry {
		delete(s.entries, key)
	}
	s.mu.Unlock()
}

// generateSecureCode generates a cryptographically secure numeric code
func generateSecureCode(length int) (string, error) {
	result := make([]byte, 0, length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		result = append(result, byte('0'+n.Int64()))
	}
	return string(result), nil
}
