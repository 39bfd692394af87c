package server

import "errors"

var (
	ErrStatusUserNotFound   string = "USER_NOT_FOUND"
	ErrStatusInvalidMode    string = "INVALID_MODE"
	ErrStatusAlreadyQueued  string = "ALREADY_QUEUED"
	ErrStatusAlreadyInMatch string = "ALREADY_IN_MATCH"
	ErrStatusMatchFailed    string = "MATCH_CREATION_FAILED"
	ErrStatusOpponentGone   string = "OPPONENT_GONE"
)

var ErrNoAuthorization = errors.New("no authorization")
