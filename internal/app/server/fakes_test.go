package server

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/texrace/texrace/internal/aws/storage"
	"github.com/texrace/texrace/internal/domains/entities"
)

// fakeConn records every event written to it, standing in for a websocket
// connection.
type fakeConn struct {
	mu     sync.Mutex
	events []event
	closed bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, v.(event))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) count(eventType string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ev := range c.events {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

func (c *fakeConn) has(eventType string) bool {
	return c.count(eventType) > 0
}

func (c *fakeConn) lastOf(eventType string) (event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Type == eventType {
			return c.events[i], true
		}
	}
	return event{}, false
}

func (c *fakeConn) waitFor(t *testing.T, eventType string) event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ev, ok := c.lastOf(eventType); ok {
			return ev
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q event", eventType)
	return event{}
}

type outcomeCall struct {
	userId    string
	won       bool
	newRating int
}

// fakeGateway implements Gateway and EquationProvider in memory.
type fakeGateway struct {
	mu       sync.Mutex
	users    map[string]entities.User
	outcomes []outcomeCall
	matches  []entities.MatchRecord
}

func newFakeGateway(users ...entities.User) *fakeGateway {
	gw := &fakeGateway{users: make(map[string]entities.User)}
	for _, u := range users {
		gw.users[u.UserId] = u
	}
	return gw
}

func (g *fakeGateway) GetUser(_ context.Context, userId string) (entities.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	user, ok := g.users[userId]
	if !ok {
		return entities.User{}, storage.ErrUserNotFound
	}
	return user, nil
}

func (g *fakeGateway) ApplyMatchOutcome(_ context.Context, userId string, won bool, newRating int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.outcomes = append(g.outcomes, outcomeCall{userId: userId, won: won, newRating: newRating})
	return nil
}

func (g *fakeGateway) PutMatch(_ context.Context, match entities.MatchRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.matches = append(g.matches, match)
	return nil
}

func (g *fakeGateway) SampleEquations(_ context.Context, count int) ([]entities.Equation, error) {
	equations := make([]entities.Equation, 0, count)
	for i := 0; i < count; i++ {
		equations = append(equations, entities.Equation{
			EquationId: fmt.Sprintf("eq-%d", i),
			Latex:      fmt.Sprintf("\\frac{%d}{2}", i),
			Active:     true,
		})
	}
	return equations, nil
}

func (g *fakeGateway) outcomeCalls() []outcomeCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]outcomeCall(nil), g.outcomes...)
}

func (g *fakeGateway) waitMatches(t *testing.T, n int) []entities.MatchRecord {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		g.mu.Lock()
		if len(g.matches) >= n {
			records := append([]entities.MatchRecord(nil), g.matches...)
			g.mu.Unlock()
			return records
		}
		g.mu.Unlock()
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d match records", n)
	return nil
}

func newTestServer(gw *fakeGateway) *server {
	cfg := Config{
		Port:              "0",
		MinLevel:          5,
		RatingWindow:      200,
		SprintTarget:      5,
		TimeModeEquations: 6,
		TimeLimit:         150 * time.Millisecond,
		MatchFoundDelay:   10 * time.Millisecond,
		CountdownStart:    3,
		CountdownInterval: 5 * time.Millisecond,
	}
	return newServer(cfg, gw, gw)
}

func (s *server) liveRoomCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

func testUser(id string, level, userRating int) entities.User {
	return entities.User{
		UserId:   id,
		Username: "user-" + id,
		Level:    level,
		Rating:   userRating,
	}
}
