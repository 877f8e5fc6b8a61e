package model

import "errors"

var (
	// ErrValidation indicates missing or malformed request fields.
	ErrValidation = errors.New("invalid request")
	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when signing up with an existing email.
	ErrEmailTaken = errors.New("email already taken")
	// ErrUserNotFound indicates the user id or email does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrSessionNotFound indicates the game session id does not resolve.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrQuestionNotFound indicates a question id is not in the pool.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrQuestionNotInSession indicates the question is not part of the
	// session's question set.
	ErrQuestionNotInSession = errors.New("question not in session set")
	// ErrAlreadyAnswered indicates the question was answered before in
	// the same session.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrSessionFinished indicates the session has already been scored.
	ErrSessionFinished = errors.New("game session already finished")
	// ErrSourceNotImplemented is returned for question sources that are
	// recognized but not wired up yet.
	ErrSourceNotImplemented = errors.New("question source not implemented")
	// ErrInvalidQuestionCount indicates a non-positive question count.
	ErrInvalidQuestionCount = errors.New("invalid question count")
)
