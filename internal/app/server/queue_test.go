package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queuedPlayer(connId string, playerRating int) *Player {
	return &Player{ConnId: connId, UserId: "u-" + connId, Rating: playerRating}
}

func TestQueuePairsWithinWindow(t *testing.T) {
	q := newQueue(200)

	opponent, position := q.join(queuedPlayer("a", 1200), ModeSprint)
	require.Nil(t, opponent)
	assert.Equal(t, 1, position)

	opponent, _ = q.join(queuedPlayer("b", 1350), ModeSprint)
	require.NotNil(t, opponent)
	assert.Equal(t, "a", opponent.ConnId)
	assert.Equal(t, 0, q.size(ModeSprint))
}

func TestQueueTakesFirstInWindowNotNearest(t *testing.T) {
	q := newQueue(200)
	// 1140 and 1440 are too far apart to pair with each other.
	q.join(queuedPlayer("far", 1140), ModeSprint)
	q.join(queuedPlayer("near", 1440), ModeSprint)

	// Both are within the window of 1300; insertion order wins even though
	// "near" is the closer rating.
	opponent, _ := q.join(queuedPlayer("c", 1300), ModeSprint)
	require.NotNil(t, opponent)
	assert.Equal(t, "far", opponent.ConnId)
	assert.Equal(t, 1, q.size(ModeSprint))
}

func TestQueueRespectsRatingWindow(t *testing.T) {
	q := newQueue(200)
	q.join(queuedPlayer("a", 1200), ModeSprint)

	opponent, position := q.join(queuedPlayer("b", 1500), ModeSprint)
	assert.Nil(t, opponent)
	assert.Equal(t, 2, position)
	assert.Equal(t, 2, q.size(ModeSprint))
}

func TestQueueModesAreSeparate(t *testing.T) {
	q := newQueue(200)
	q.join(queuedPlayer("a", 1200), ModeSprint)

	opponent, _ := q.join(queuedPlayer("b", 1200), ModeTime)
	assert.Nil(t, opponent)
	assert.Equal(t, 1, q.size(ModeSprint))
	assert.Equal(t, 1, q.size(ModeTime))
}

func TestQueueLeave(t *testing.T) {
	q := newQueue(200)
	q.join(queuedPlayer("a", 1200), ModeSprint)

	assert.True(t, q.leave("a"))
	assert.False(t, q.leave("a"))
	assert.Equal(t, 0, q.size(ModeSprint))

	// The departed player can no longer be paired.
	opponent, _ := q.join(queuedPlayer("b", 1200), ModeSprint)
	assert.Nil(t, opponent)
}

func TestQueueNeverPairsSameUser(t *testing.T) {
	q := newQueue(200)
	p := queuedPlayer("a", 1200)
	q.join(p, ModeSprint)

	rejoined := &Player{ConnId: "a2", UserId: p.UserId, Rating: 1200}
	opponent, _ := q.join(rejoined, ModeSprint)
	assert.Nil(t, opponent)
}
