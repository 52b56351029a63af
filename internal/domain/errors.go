package domain

import "errors"

var (
	// ErrMatchNotFound is returned when a player acts without an active match.
	ErrMatchNotFound = errors.New("match not found")
	// ErrPlayerNotFound is returned when no player is logged in for a device.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrEntryNotFound indicates the nickname has no leaderboard record yet.
	ErrEntryNotFound = errors.New("ranking entry not found")
	// ErrQuestionNotFound indicates a question ID is not in the bank.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrQuestionBankEmpty indicates a match cannot start without questions.
	ErrQuestionBankEmpty = errors.New("question bank is empty")
	// ErrLifelineExhausted is returned when a lifeline has no uses left.
	ErrLifelineExhausted = errors.New("lifeline exhausted")
	// ErrHintInFlight is returned while another hint request is being serviced.
	ErrHintInFlight = errors.New("hint request already in flight")
	// ErrNotAuthorized rejects admin operations without the shared secret.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrInvalidNickname rejects logins with a blank name.
	ErrInvalidNickname = errors.New("invalid nickname")
	// ErrInvalidQuestion rejects malformed admin question submissions.
	ErrInvalidQuestion = errors.New("invalid question")
)
