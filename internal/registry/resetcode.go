package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/bako110/backend/internal/utils"
)

// Reset-code failure kinds. The service wraps these into the error taxonomy
// the controller maps to statuses.
var (
	ErrCodeNotFound      = errors.New("reset code not found")
	ErrCodeExpired       = errors.New("reset code expired")
	ErrNoVerifiedAttempt = errors.New("no verified reset attempt")
)

// ResetAttempt tracks a single in-flight password reset for one identifier.
type ResetAttempt struct {
	Code      string
	ExpiresAt time.Time
	Verified  bool
}

// ResetCodeRegistry owns the table of in-flight password-reset attempts,
// keyed by identifier (email or phone). At most one attempt exists per
// identifier; a new request overwrites any prior one. All operations are
// atomic under a single mutex.
//
// Codes are not checked for global uniqueness: a collision between two
// identifiers' codes would let one request verify with the other's code.
// Accepted risk given random generation; not silently fixed.
type ResetCodeRegistry struct {
	mu         sync.Mutex
	attempts   map[string]*ResetAttempt
	codeLength int
	ttl        time.Duration
	now        func() time.Time
}

// NewResetCodeRegistry creates an empty registry issuing codes of codeLength
// digits that expire after ttl.
func NewResetCodeRegistry(codeLength int, ttl time.Duration) *ResetCodeRegistry {
	return &ResetCodeRegistry{
		attempts:   make(map[string]*ResetAttempt),
		codeLength: codeLength,
		ttl:        ttl,
		now:        time.Now,
	}
}

// SetClock overrides the registry's time source. Test seam only.
func (r *ResetCodeRegistry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Request generates a fresh code for the identifier, unconditionally
// replacing any prior attempt, and returns the code.
func (r *ResetCodeRegistry) Request(identifier string) (string, error) {
	code, err := utils.GenerateResetCode(r.codeLength)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.attempts[identifier] = &ResetAttempt{
		Code:      code,
		ExpiresAt: r.now().Add(r.ttl),
		Verified:  false,
	}
	return code, nil
}

// Verify scans all active attempts for one whose code matches. A match past
// its expiry is deleted and reported as ErrCodeExpired. On success the
// attempt is marked verified and the owning identifier returned. Lookup is
// by code value alone, not by identifier.
func (r *ResetCodeRegistry) Verify(code string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for identifier, attempt := range r.attempts {
		if attempt.Code != code {
			continue
		}
		if r.now().After(attempt.ExpiresAt) {
			delete(r.attempts, identifier)
			return "", ErrCodeExpired
		}
		attempt.Verified = true
		return identifier, nil
	}
	return "", ErrCodeNotFound
}

// Consume finds the (at most one, by construction) verified attempt, deletes
// it, and returns its identifier. An expired verified attempt is deleted and
// reported as ErrCodeExpired.
func (r *ResetCodeRegistry) Consume() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for identifier, attempt := range r.attempts {
		if !attempt.Verified {
			continue
		}
		delete(r.attempts, identifier)
		if r.now().After(attempt.ExpiresAt) {
			return "", ErrCodeExpired
		}
		return identifier, nil
	}
	return "", ErrNoVerifiedAttempt
}

// SweepExpired removes all attempts past their expiry regardless of state
// and returns how many were removed. Driven by the periodic sweep worker.
func (r *ResetCodeRegistry) SweepExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for identifier, attempt := range r.attempts {
		if now.After(attempt.ExpiresAt) {
			delete(r.attempts, identifier)
			removed++
		}
	}
	return removed
}

// Len reports the number of active attempts. Used by tests and logging.
func (r *ResetCodeRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.attempts)
}
