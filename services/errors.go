package services

import "errors"

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrPasswordTooShort = errors.New("password is too short")

	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrSportNotFound      = errors.New("sport not found")
	ErrUserNotFound       = errors.New("user not found")

	ErrTournamentFull          = errors.New("tournament has reached its team limit")
	ErrBracketAlreadyGenerated = errors.New("bracket has already been generated for this tournament")
	ErrSportNameConflict       = errors.New("sport name already exists")
	ErrSeedConflict            = errors.New("seed already taken, retry registration")

	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
)
