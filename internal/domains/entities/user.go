package entities

import "time"

type User struct {
	UserId      string    `dynamodbav:"UserId"`
	Username    string    `dynamodbav:"Username"`
	Level       int       `dynamodbav:"Level"`
	Rating      int       `dynamodbav:"Rating"`
	GamesPlayed int       `dynamodbav:"GamesPlayed"`
	Wins        int       `dynamodbav:"Wins"`
	Losses      int       `dynamodbav:"Losses"`
	Streak      int       `dynamodbav:"Streak"`
	BestStreak  int       `dynamodbav:"BestStreak"`
	CreatedAt   time.Time `dynamodbav:"CreatedAt"`
}
