package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/texrace/texrace/internal/aws/storage"
	"github.com/texrace/texrace/internal/domains/entities"
	"github.com/texrace/texrace/pkg/logging"
	"github.com/texrace/texrace/pkg/rating"
	"github.com/texrace/texrace/pkg/utils"
	"go.uber.org/zap"
)

const storageTimeout = 10 * time.Second

func (s *server) handleMessage(connId, userId string, conn Conn, pl payload) {
	switch pl.Type {
	case "queue:join":
		var req queueJoinRequest
		if err := json.Unmarshal(pl.Data, &req); err != nil {
			conn.WriteJSON(event{Type: "error", Data: errorEvent{Message: "malformed payload"}})
			return
		}
		s.handleQueueJoin(connId, userId, conn, req.Mode)
	case "queue:leave":
		s.handleQueueLeave(connId)
	case "game:progress":
		var report progressReport
		if err := json.Unmarshal(pl.Data, &report); err != nil {
			return
		}
		s.handleGameProgress(connId, report)
	case "game:finish":
		s.handleGameFinish(connId)
	case "rematch:request":
		s.handleRematchRequest(connId)
	case "rematch:accept":
		s.handleRematchAccept(connId)
	default:
		logging.Info("invalid payload type", zap.String("type", pl.Type))
	}
}

/*
Handler for matchmaking requests. The account is fetched so the rating can
be snapshotted onto the player record; accounts below the minimum level are
rejected with an error event and never queued.
*/
func (s *server) handleQueueJoin(connId, userId string, conn Conn, mode Mode) {
	if mode != ModeSprint && mode != ModeTime {
		conn.WriteJSON(event{Type: "error", Data: errorEvent{Message: ErrStatusInvalidMode}})
		return
	}
	if s.queue.contains(connId) {
		conn.WriteJSON(event{Type: "error", Data: errorEvent{Message: ErrStatusAlreadyQueued}})
		return
	}
	if existing, ok := s.registry.lookup(connId); ok && existing.currentRoom() != nil && !existing.currentRoom().isEnded() {
		conn.WriteJSON(event{Type: "error", Data: errorEvent{Message: ErrStatusAlreadyInMatch}})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	user, err := s.gateway.GetUser(ctx, userId)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			conn.WriteJSON(event{Type: "error", Data: errorEvent{Message: ErrStatusUserNotFound}})
		} else {
			logging.Error("failed to get user", zap.String("user_id", userId), zap.Error(err))
			conn.WriteJSON(event{Type: "error", Data: errorEvent{Message: "failed to join queue"}})
		}
		return
	}
	if user.Level < s.config.MinLevel {
		conn.WriteJSON(event{Type: "error", Data: errorEvent{
			Message: fmt.Sprintf("you need to be level %d to play ranked matches", s.config.MinLevel),
		}})
		return
	}

	player := newPlayer(conn, connId, user)
	s.registry.register(connId, player)
	player.send("queue:joined", nil)

	opponent, position := s.queue.join(player, mode)
	if opponent == nil {
		player.send("queue:waiting", queueWaitingEvent{
			Position:      position,
			EstimatedTime: position * 10,
		})
		return
	}
	s.createRoom([]*Player{opponent, player}, mode)
}

func (s *server) handleQueueLeave(connId string) {
	if s.queue.leave(connId) {
		if player, ok := s.registry.lookup(connId); ok {
			player.send("queue:left", nil)
		}
	}
}

func (s *server) handleGameProgress(connId string, report progressReport) {
	player, ok := s.registry.lookup(connId)
	if !ok {
		return
	}
	if room := player.currentRoom(); room != nil {
		room.handleProgress(player, report)
	}
}

func (s *server) handleGameFinish(connId string) {
	player, ok := s.registry.lookup(connId)
	if !ok {
		return
	}
	if room := player.currentRoom(); room != nil {
		room.handleFinish(player)
	}
}

func (s *server) handleRematchRequest(connId string) {
	player, ok := s.registry.lookup(connId)
	if !ok {
		return
	}
	room := player.currentRoom()
	if room == nil || !room.isFinished() {
		return
	}
	opponent := room.opponentOf(player)
	if opponent != nil {
		opponent.send("rematch:requested", rematchRequestedEvent{From: player.Username})
	}
}

// Handler for rematch acceptance: the finished room stays immutable and an
// entirely new room is allocated for the same two players.
func (s *server) handleRematchAccept(connId string) {
	player, ok := s.registry.lookup(connId)
	if !ok {
		return
	}
	room := player.currentRoom()
	if room == nil || !room.isFinished() {
		return
	}
	opponent := room.opponentOf(player)
	if opponent == nil || !opponent.connected() || opponent.currentRoom() != room {
		player.send("error", errorEvent{Message: ErrStatusOpponentGone})
		return
	}
	s.createRoom([]*Player{player, opponent}, room.mode)
}

// Handler for when a user connection closes. Every cleanup step runs even if
// an earlier one found nothing to do.
func (s *server) handleConnectionClose(connId string) {
	player, ok := s.registry.lookup(connId)
	if ok {
		if room := player.currentRoom(); room != nil {
			room.handleDisconnect(player)
		}
	}
	s.queue.leave(connId)
	s.registry.remove(connId)
	if ok {
		player.clearConn()
	}
}

func (s *server) createRoom(players []*Player, mode Mode) {
	settings := Settings{}
	equationCount := 0
	switch mode {
	case ModeSprint:
		settings.EquationCount = s.config.SprintTarget
		equationCount = s.config.SprintTarget
	case ModeTime:
		settings.TimeLimit = int(s.config.TimeLimit.Seconds())
		equationCount = s.config.TimeModeEquations
	}

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	equations, err := s.equations.SampleEquations(ctx, equationCount)
	if err != nil {
		logging.Error("failed to sample equations", zap.Error(err))
		for _, p := range players {
			p.send("error", errorEvent{Message: ErrStatusMatchFailed})
		}
		return
	}

	room := &Room{
		id:                utils.GenerateUUID(),
		mode:              mode,
		settings:          settings,
		players:           players,
		equations:         equations,
		status:            WAITING,
		matchFoundDelay:   s.config.MatchFoundDelay,
		countdownStart:    s.config.CountdownStart,
		countdownInterval: s.config.CountdownInterval,
		timeLimit:         s.config.TimeLimit,
		endHandler:        s.handleGameEnd,
	}

	info := make([]playerInfo, 0, len(players))
	for _, p := range players {
		p.joinRoom(room)
		info = append(info, playerInfo{Username: p.Username, Rating: p.Rating})
	}

	s.mu.Lock()
	s.rooms[room.id] = room
	s.mu.Unlock()

	room.broadcast("match:found", matchFoundEvent{
		RoomId:    room.id,
		Mode:      mode,
		Equations: equations,
		Players:   info,
		Settings:  settings,
	})
	room.scheduleStart()

	logging.Info("match found",
		zap.String("room_id", room.id),
		zap.String("mode", string(mode)),
		zap.String("player1", players[0].UserId),
		zap.String("player2", players[1].UserId),
	)
}

/*
Handler for when a room reaches its terminal state. Ratings are recalculated
only for decisive outcomes, persistence is attempted best-effort, and the
game:end event is emitted to both connections regardless of write failures.
The room is retired afterwards; rematches allocate a fresh room.
*/
func (s *server) handleGameEnd(room *Room, res result) {
	defer s.removeRoom(room.id)

	if res.aborted {
		logging.Info("match aborted", zap.String("room_id", room.id))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	if res.tie {
		room.broadcast("game:end", gameEndEvent{Tie: true})
		s.saveMatch(ctx, room, nil)
		logging.Info("game ended in tie", zap.String("room_id", room.id))
		return
	}

	winner, loser := res.winner, res.loser
	newWinnerRating := rating.New(winner.Rating, loser.Rating, true)
	newLoserRating := rating.New(loser.Rating, winner.Rating, false)

	if err := s.gateway.ApplyMatchOutcome(ctx, winner.UserId, true, newWinnerRating); err != nil {
		logging.Error("failed to persist winner outcome",
			zap.String("user_id", winner.UserId),
			zap.Error(err),
		)
	}
	if err := s.gateway.ApplyMatchOutcome(ctx, loser.UserId, false, newLoserRating); err != nil {
		logging.Error("failed to persist loser outcome",
			zap.String("user_id", loser.UserId),
			zap.Error(err),
		)
	}

	room.broadcast("game:end", gameEndEvent{
		Winner: &playerSummary{
			Username:     winner.Username,
			Wpm:          winner.Wpm,
			Accuracy:     winner.Accuracy,
			RatingChange: newWinnerRating - winner.Rating,
			NewRating:    newWinnerRating,
		},
		Loser: &playerSummary{
			Username:     loser.Username,
			Wpm:          loser.Wpm,
			Accuracy:     loser.Accuracy,
			RatingChange: newLoserRating - loser.Rating,
			NewRating:    newLoserRating,
		},
	})
	s.saveMatch(ctx, room, winner)

	logging.Info("game ended",
		zap.String("room_id", room.id),
		zap.String("winner_id", winner.UserId),
	)
}

func (s *server) saveMatch(ctx context.Context, room *Room, winner *Player) {
	record := entities.MatchRecord{
		MatchId:    utils.GenerateUUID(),
		Mode:       string(room.mode),
		DurationMs: time.Since(room.startAt).Milliseconds(),
		Timestamp:  time.Now(),
	}
	if winner != nil {
		record.WinnerId = winner.UserId
	}
	for _, p := range room.players {
		record.Players = append(record.Players, entities.MatchPlayer{
			UserId:       p.UserId,
			Username:     p.Username,
			Rating:       p.Rating,
			Wpm:          p.Wpm,
			Accuracy:     p.Accuracy,
			Finished:     p.Finished,
			FinishTimeMs: p.FinishTime.Milliseconds(),
		})
	}
	for _, eq := range room.equations {
		record.EquationIds = append(record.EquationIds, eq.EquationId)
	}

	if err := s.gateway.PutMatch(ctx, record); err != nil {
		logging.Error("failed to save match record",
			zap.String("room_id", room.id),
			zap.Error(err),
		)
	}
}
