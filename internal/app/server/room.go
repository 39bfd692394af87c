package server

import (
	"sync"
	"time"

	"github.com/texrace/texrace/internal/domains/entities"
	"github.com/texrace/texrace/pkg/logging"
	"go.uber.org/zap"
)

type (
	Mode       string
	RoomStatus uint8
)

const (
	// ModeSprint races to a fixed equation count; first to finish wins.
	ModeSprint Mode = "sprint"
	// ModeTime runs for a fixed duration; highest WPM at expiry wins.
	ModeTime Mode = "time"

	WAITING RoomStatus = iota
	COUNTDOWN
	PLAYING
	FINISHED
)

// Settings carries the mode parameters sent to both clients with match:found.
type Settings struct {
	EquationCount int `json:"equationCount,omitempty"`
	TimeLimit     int `json:"timeLimit,omitempty"`
}

// result is the terminal outcome of a room. A match that never reached
// playing is aborted: nothing is rated or persisted for it.
type result struct {
	winner  *Player
	loser   *Player
	tie     bool
	aborted bool
}

/*
Room owns the lifecycle of one match between exactly two players:
waiting -> countdown -> playing -> finished. Transitions are monotonic; a
rematch allocates a fresh room instead of rewinding this one. The ended flag
guards every terminal path, so duplicate finish calls, a late deadline timer
and a disconnect racing the deadline all collapse into a single outcome.
*/
type Room struct {
	id        string
	mode      Mode
	settings  Settings
	players   []*Player
	equations []entities.Equation

	status  RoomStatus
	startAt time.Time

	matchFoundDelay   time.Duration
	countdownStart    int
	countdownInterval time.Duration
	timeLimit         time.Duration

	waitTimer     *time.Timer
	deadlineTimer *time.Timer

	endHandler func(*Room, result)

	ended bool
	mu    sync.Mutex
}

// scheduleStart arms the waiting->countdown delay that gives clients time to
// render the equation set.
func (r *Room) scheduleStart() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waitTimer = time.AfterFunc(r.matchFoundDelay, r.startCountdown)
}

func (r *Room) startCountdown() {
	r.mu.Lock()
	if r.ended || r.status != WAITING {
		r.mu.Unlock()
		return
	}
	r.status = COUNTDOWN
	r.mu.Unlock()

	for count := r.countdownStart; count > 0; count-- {
		if r.isEnded() {
			return
		}
		r.broadcast("countdown", countdownEvent{Count: count})
		time.Sleep(r.countdownInterval)
	}
	r.startPlaying()
}

func (r *Room) startPlaying() {
	r.mu.Lock()
	if r.ended || r.status != COUNTDOWN {
		r.mu.Unlock()
		return
	}
	r.status = PLAYING
	r.startAt = time.Now()
	if r.mode == ModeTime {
		r.deadlineTimer = time.AfterFunc(r.timeLimit, r.expire)
	}
	r.mu.Unlock()

	r.broadcast("game:start", nil)
	logging.Info("game started", zap.String("room_id", r.id), zap.String("mode", string(r.mode)))
}

/*
handleProgress method    overwrites the reporter's progress fields and relays
the report to the other player only. Reports outside the playing state are
silently dropped. In sprint mode, reaching the equation target finishes the
reporter immediately.
*/
func (r *Room) handleProgress(player *Player, report progressReport) {
	r.mu.Lock()
	if r.status != PLAYING {
		r.mu.Unlock()
		return
	}
	player.Progress = report.Progress
	player.Wpm = report.Wpm
	player.Accuracy = report.Accuracy
	opponent := r.opponentOf(player)
	sprintDone := r.mode == ModeSprint && report.Progress >= r.settings.EquationCount
	r.mu.Unlock()

	if opponent != nil {
		opponent.send("opponent:progress", report)
	}
	if sprintDone {
		r.handleFinish(player)
	}
}

/*
handleFinish method    marks the player finished. The per-player finished
flag makes repeat calls no-ops. In sprint mode the first finisher ends the
match immediately; in time mode the match ends early only once both players
have finished.
*/
func (r *Room) handleFinish(player *Player) {
	r.mu.Lock()
	if r.status != PLAYING || player.Finished {
		r.mu.Unlock()
		return
	}
	player.Finished = true
	player.FinishTime = time.Since(r.startAt)
	endNow := r.mode == ModeSprint || r.allFinishedLocked()
	r.mu.Unlock()

	logging.Info("player finished",
		zap.String("room_id", r.id),
		zap.String("user_id", player.UserId),
	)
	if endNow {
		r.finish()
	}
}

// expire fires when the time-mode duration elapses.
func (r *Room) expire() {
	logging.Info("time limit reached", zap.String("room_id", r.id))
	r.finish()
}

// finish is the terminal transition by game rules. Exactly one caller wins
// the ended guard; everyone else returns without effect.
func (r *Room) finish() {
	r.mu.Lock()
	if r.ended {
		r.mu.Unlock()
		return
	}
	r.ended = true
	r.status = FINISHED
	r.stopTimersLocked()
	res := r.resultLocked()
	r.mu.Unlock()

	r.endHandler(r, res)
}

/*
handleDisconnect method    ends the room when either player drops. During
playing the survivor wins by default; before playing the match is aborted
without an outcome. The remaining player is always notified.
*/
func (r *Room) handleDisconnect(player *Player) {
	r.mu.Lock()
	if r.ended {
		r.mu.Unlock()
		return
	}
	r.ended = true
	playing := r.status == PLAYING
	r.status = FINISHED
	r.stopTimersLocked()
	opponent := r.opponentOf(player)
	r.mu.Unlock()

	logging.Info("player disconnected mid-match",
		zap.String("room_id", r.id),
		zap.String("user_id", player.UserId),
	)
	if opponent != nil {
		opponent.send("opponent:disconnected", nil)
	}
	if playing {
		r.endHandler(r, result{winner: opponent, loser: player})
	} else {
		r.endHandler(r, result{aborted: true})
	}
}

// resultLocked computes the outcome once the room is finished by game rules.
func (r *Room) resultLocked() result {
	switch r.mode {
	case ModeSprint:
		var winner, loser *Player
		for _, p := range r.players {
			if p.Finished && (winner == nil || p.FinishTime < winner.FinishTime) {
				winner = p
			}
		}
		for _, p := range r.players {
			if p != winner {
				loser = p
			}
		}
		if winner == nil {
			return result{tie: true}
		}
		return result{winner: winner, loser: loser}
	default:
		p1, p2 := r.players[0], r.players[1]
		if p1.Wpm > p2.Wpm {
			return result{winner: p1, loser: p2}
		}
		if p2.Wpm > p1.Wpm {
			return result{winner: p2, loser: p1}
		}
		return result{tie: true}
	}
}

func (r *Room) opponentOf(player *Player) *Player {
	for _, p := range r.players {
		if p.ConnId != player.ConnId {
			return p
		}
	}
	return nil
}

func (r *Room) allFinishedLocked() bool {
	for _, p := range r.players {
		if !p.Finished {
			return false
		}
	}
	return true
}

// stopTimersLocked cancels every pending timer so that none of them can act
// on a retired room.
func (r *Room) stopTimersLocked() {
	if r.waitTimer != nil {
		r.waitTimer.Stop()
	}
	if r.deadlineTimer != nil {
		r.deadlineTimer.Stop()
	}
}

func (r *Room) isEnded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ended
}

func (r *Room) isFinished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status == FINISHED
}

// broadcast sends the event to both players. The player list is fixed at
// creation, so no lock is needed here.
func (r *Room) broadcast(eventType string, data any) {
	for _, p := range r.players {
		p.send(eventType, data)
	}
}
