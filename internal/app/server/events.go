package server

import (
	"encoding/json"

	"github.com/texrace/texrace/internal/domains/entities"
)

// payload is the inbound message envelope.
type payload struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// event is the outbound message envelope.
type event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type queueJoinRequest struct {
	Mode Mode `json:"mode"`
}

type progressReport struct {
	Progress int     `json:"progress"`
	Wpm      float64 `json:"wpm"`
	Accuracy float64 `json:"accuracy"`
}

type queueWaitingEvent struct {
	Position      int `json:"position"`
	EstimatedTime int `json:"estimatedTime"`
}

type matchFoundEvent struct {
	RoomId    string              `json:"roomId"`
	Mode      Mode                `json:"mode"`
	Equations []entities.Equation `json:"equations"`
	Players   []playerInfo        `json:"players"`
	Settings  Settings            `json:"settings"`
}

type playerInfo struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
}

type countdownEvent struct {
	Count int `json:"count"`
}

type playerSummary struct {
	Username     string  `json:"username"`
	Wpm          float64 `json:"wpm"`
	Accuracy     float64 `json:"accuracy"`
	RatingChange int     `json:"ratingChange"`
	NewRating    int     `json:"newRating"`
}

type gameEndEvent struct {
	Winner *playerSummary `json:"winner,omitempty"`
	Loser  *playerSummary `json:"loser,omitempty"`
	Tie    bool           `json:"tie,omitempty"`
}

type rematchRequestedEvent struct {
	From string `json:"from"`
}

type errorEvent struct {
	Message string `json:"message"`
}
