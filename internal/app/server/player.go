package server

import (
	"sync"
	"time"

	"github.com/texrace/texrace/internal/domains/entities"
)

// Conn is the transport side of one connected player. *websocket.Conn
// satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Player is the live record for one connection while queued or in a room.
// Rating is snapshotted from the account at queue-join time; progress fields
// are self-reported by the client and trusted as given.
type Player struct {
	ConnId   string
	UserId   string
	Username string
	Rating   int

	Progress   int
	Wpm        float64
	Accuracy   float64
	Finished   bool
	FinishTime time.Duration

	room *Room

	conn Conn
	mu   sync.Mutex
}

func newPlayer(conn Conn, connId string, user entities.User) *Player {
	return &Player{
		ConnId:   connId,
		UserId:   user.UserId,
		Username: user.Username,
		Rating:   user.Rating,
		conn:     conn,
	}
}

func (p *Player) send(eventType string, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return
	}
	p.conn.WriteJSON(event{Type: eventType, Data: data})
}

func (p *Player) clearConn() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conn = nil
}

func (p *Player) connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil
}

// joinRoom publishes the room assignment and clears the previous match's
// progress in one step, so a reader on another connection's goroutine never
// sees the new room paired with stale progress.
func (p *Player) joinRoom(r *Room) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Progress = 0
	p.Wpm = 0
	p.Accuracy = 0
	p.Finished = false
	p.FinishTime = 0
	p.room = r
}

func (p *Player) currentRoom() *Room {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.room
}
