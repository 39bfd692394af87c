package entities

import "time"

// MatchRecord is the append-only history entry written once per finished match.
type MatchRecord struct {
	MatchId     string        `dynamodbav:"MatchId"`
	Players     []MatchPlayer `dynamodbav:"Players"`
	WinnerId    string        `dynamodbav:"WinnerId"`
	Mode        string        `dynamodbav:"Mode"`
	EquationIds []string      `dynamodbav:"EquationIds"`
	DurationMs  int64         `dynamodbav:"DurationMs"`
	Timestamp   time.Time     `dynamodbav:"Timestamp"`
}

// MatchPlayer snapshots one side of a match. Rating is the pre-match rating.
type MatchPlayer struct {
	UserId       string  `dynamodbav:"UserId"`
	Username     string  `dynamodbav:"Username"`
	Rating       int     `dynamodbav:"Rating"`
	Wpm          float64 `dynamodbav:"Wpm"`
	Accuracy     float64 `dynamodbav:"Accuracy"`
	Finished     bool    `dynamodbav:"Finished"`
	FinishTimeMs int64   `dynamodbav:"FinishTimeMs"`
}
