package server

import "sync"

// registry maps live connection ids to their player records.
type registry struct {
	players map[string]*Player
	mu      sync.Mutex
}

func newRegistry() *registry {
	return &registry{players: make(map[string]*Player)}
}

// register stores the mapping, overwriting any previous record for the
// connection.
func (r *registry) register(connId string, player *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[connId] = player
}

func (r *registry) lookup(connId string) (*Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	player, ok := r.players[connId]
	return player, ok
}

// remove is idempotent.
func (r *registry) remove(connId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, connId)
}
