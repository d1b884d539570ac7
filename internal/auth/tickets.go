package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// ticketTTL is how long a WebSocket ticket stays redeemable. Tickets are
// fetched by the browser immediately before opening the socket, so the
// window only needs to cover one round trip.
const ticketTTL = 30 * time.Second

// TicketStore issues and redeems single-use WebSocket tickets.
//
// Browsers cannot set an Authorization header on a WebSocket handshake,
// so the admin UI trades its JWT for a short-lived ticket over REST and
// passes the ticket as a query parameter instead. Each ticket redeems
// exactly once.
type TicketStore struct {
	mu      sync.Mutex
	tickets map[string]ticket
}

type ticket struct {
	subject   string
	expiresAt time.Time
}

// NewTicketStore creates an empty ticket store.
func NewTicketStore() *TicketStore {
	return &TicketStore{tickets: make(map[string]ticket)}
}

// Issue creates a ticket bound to the given subject and returns its
// opaque value (256-bit hex).
func (s *TicketStore) Issue(subject string) (string, error) {
	b := make([]byte, 32) //nolint:mnd // 256-bit ticket
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating ticket: %w", err)
	}
	value := hex.EncodeToString(b)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.tickets[value] = ticket{
		subject:   subject,
		expiresAt: time.Now().Add(ticketTTL),
	}
	return value, nil
}

// Redeem consumes a ticket and returns its subject. A ticket redeems at
// most once; expired or unknown tickets return ErrTicketInvalid.
func (s *TicketStore) Redeem(value string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[value]
	if !ok {
		return "", ErrTicketInvalid
	}
	delete(s.tickets, value)

	if time.Now().After(t.expiresAt) {
		return "", ErrTicketInvalid
	}
	return t.subject, nil
}

// pruneLocked drops expired tickets. Caller holds mu.
func (s *TicketStore) pruneLocked() {
	now := time.Now()
	for value, t := range s.tickets {
		if now.After(t.expiresAt) {
			delete(s.tickets, value)
		}
	}
}
