package server

import "sync"

/*
queue holds players awaiting an opponent, one list per game mode. Insertion
is FIFO; pairing takes the first queued player whose rating is within the
window, not the nearest one. No starvation guarantee is made: the window
stays fixed for however long a player waits.
*/
type queue struct {
	window  int
	waiting map[Mode][]*Player
	mu      sync.Mutex
}

func newQueue(window int) *queue {
	return &queue{
		window:  window,
		waiting: make(map[Mode][]*Player),
	}
}

/*
join method    attempts to pair the player with someone already waiting for
the same mode. On success both sides are removed atomically and the opponent
is returned. Otherwise the player is appended and join returns the queue
position.
*/
func (q *queue) join(player *Player, mode Mode) (*Player, int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	waiting := q.waiting[mode]
	for i, candidate := range waiting {
		if candidate.ConnId == player.ConnId || candidate.UserId == player.UserId {
			continue
		}
		diff := candidate.Rating - player.Rating
		if diff < 0 {
			diff = -diff
		}
		if diff <= q.window {
			q.waiting[mode] = append(waiting[:i], waiting[i+1:]...)
			return candidate, 0
		}
	}

	q.waiting[mode] = append(waiting, player)
	return nil, len(q.waiting[mode])
}

// leave removes the connection from whichever mode list holds it. No-op if
// the player is not queued.
func (q *queue) leave(connId string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for mode, waiting := range q.waiting {
		for i, candidate := range waiting {
			if candidate.ConnId == connId {
				q.waiting[mode] = append(waiting[:i], waiting[i+1:]...)
				return true
			}
		}
	}
	return false
}

func (q *queue) contains(connId string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, waiting := range q.waiting {
		for _, candidate := range waiting {
			if candidate.ConnId == connId {
				return true
			}
		}
	}
	return false
}

func (q *queue) size(mode Mode) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting[mode])
}
