package nonce

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// Guard hands out single-use form tokens and forgets them once they age out.
// The original form flow let a token be replayed until the sweep caught it;
// Consume retires tokens on first acceptance instead.
type Guard struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	issued map[string]time.Time
}

func NewGuard(ttl time.Duration) *Guard {
	return &Guard{
		ttl:    ttl,
		now:    time.Now,
		issued: make(map[string]time.Time),
	}
}

// Issue generates a fresh token from 8 random bytes, URL-safe encoded.
// Expired tokens are swept opportunistically on each issuance.
func (g *Guard) Issue() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.sweepLocked()
	g.issued[token] = g.now()
	return token, nil
}

// Consume reports whether value is a live token. A known token is removed
// regardless of age, so a valid token works exactly once.
func (g *Guard) Consume(value string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	issuedAt, ok := g.issued[value]
	if !ok {
		return false
	}
	delete(g.issued, value)
	return g.now().Sub(issuedAt) < g.ttl
}

// Sweep drops every token older than the guard's horizon.
func (g *Guard) Sweep() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sweepLocked()
}

func (g *Guard) sweepLocked() {
	cutoff := g.now().Add(-g.ttl)
	for token, issuedAt := range g.issued {
		if !issuedAt.After(cutoff) {
			delete(g.issued, token)
		}
	}
}
