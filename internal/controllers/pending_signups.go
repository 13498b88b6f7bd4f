package controllers

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// pendingSignup holds an OTP-gated registration until the email is verified.
type pendingSignup struct {
	FullName    string
	Email       string
	Phone       string
	Password    string
	Gender      string
	DOB         string
	Country     string
	Referral    string
	AcceptTerms bool
	OTP         string
	ExpiresAt   time.Time
}

// pendingStore is a keyed in-process store with TTL eviction. A janitor
// goroutine sweeps expired entries; Get also drops an expired hit so a stale
// OTP can never verify.
type pendingStore struct {
	mu      sync.Mutex
	entries map[string]pendingSignup
}

func newPendingStore(sweepEvery time.Duration) *pendingStore {
	s := &pendingStore{entries: make(map[string]pendingSignup)}
	go func() {
		for range time.Tick(sweepEvery) {
			now := time.Now()
			s.mu.Lock()
			for k, v := range s.entries {
				if v.ExpiresAt.Before(now) {
					delete(s.entries, k)
				}
			}
			s.mu.Unlock()
		}
	}()
	return s
}

func (s *pendingStore) Put(key string, v pendingSignup) {
	s.mu.Lock()
	s.entries[key] = v
	s.mu.Unlock()
}

func (s *pendingStore) Get(key string) (pendingSignup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	if !ok {
		return pendingSignup{}, false
	}
	if v.ExpiresAt.Before(time.Now()) {
		delete(s.entries, key)
		return pendingSignup{}, false
	}
	return v, true
}

func (s *pendingStore) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

var (
	signups = newPendingStore(time.Minute)
	resets  = newPendingStore(time.Minute)
)

const otpTTL = 10 * time.Minute

func generateOTP() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}

func generateReferralID() string {
	return fmt.Sprintf("YOKE%06d", 100000+rand.Intn(900000))
}
