package server

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	IdleTimeout time.Duration

	AuthSecret   string
	MinLevel     int
	RatingWindow int

	SprintTarget      int
	TimeModeEquations int
	TimeLimit         time.Duration
	MatchFoundDelay   time.Duration
	CountdownStart    int
	CountdownInterval time.Duration

	AwsRegion          string
	UsersTableName     string
	MatchesTableName   string
	EquationsTableName string
}

func NewConfig() Config {
	var config Config

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs/server")
	viper.AddConfigPath(".")

	viper.SetDefault("Server.Port", "8080")
	viper.SetDefault("Server.IdleTimeout", "60s")
	viper.SetDefault("Matchmaking.MinLevel", 5)
	viper.SetDefault("Matchmaking.RatingWindow", 200)
	viper.SetDefault("Game.SprintTarget", 20)
	viper.SetDefault("Game.TimeModeEquations", 30)
	viper.SetDefault("Game.TimeLimit", "60s")
	viper.SetDefault("Game.MatchFoundDelay", "2s")
	viper.SetDefault("Game.CountdownStart", 3)
	viper.SetDefault("Game.CountdownInterval", "1s")
	viper.SetDefault("AWS.UsersTableName", "TexraceUsers")
	viper.SetDefault("AWS.MatchesTableName", "TexraceMatches")
	viper.SetDefault("AWS.EquationsTableName", "TexraceEquations")

	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s", err))
	}
	viper.AutomaticEnv()

	config.Port = viper.GetString("Server.Port")
	config.IdleTimeout = mustParseDuration("Server.IdleTimeout")
	config.AuthSecret = viper.GetString("AUTH_SECRET")
	config.MinLevel = viper.GetInt("Matchmaking.MinLevel")
	config.RatingWindow = viper.GetInt("Matchmaking.RatingWindow")
	config.SprintTarget = viper.GetInt("Game.SprintTarget")
	config.TimeModeEquations = viper.GetInt("Game.TimeModeEquations")
	config.TimeLimit = mustParseDuration("Game.TimeLimit")
	config.MatchFoundDelay = mustParseDuration("Game.MatchFoundDelay")
	config.CountdownStart = viper.GetInt("Game.CountdownStart")
	config.CountdownInterval = mustParseDuration("Game.CountdownInterval")
	config.AwsRegion = viper.GetString("AWS_REGION")
	config.UsersTableName = viper.GetString("AWS.UsersTableName")
	config.MatchesTableName = viper.GetString("AWS.MatchesTableName")
	config.EquationsTableName = viper.GetString("AWS.EquationsTableName")

	return config
}

func mustParseDuration(key string) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s", err))
	}
	return d
}
