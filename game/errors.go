package game

import "errors"

// ErrorKind classifies why an action was rejected.
type ErrorKind int

const (
	KindPhase ErrorKind = iota
	KindAuthorization
	KindMalformed
	KindOwnership
	KindRule
)

// String returns the protocol string for an ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case KindPhase:
		return "phase_mismatch"
	case KindAuthorization:
		return "authorization"
	case KindMalformed:
		return "malformed_input"
	case KindOwnership:
		return "ownership"
	case KindRule:
		return "rule_violation"
	default:
		return "unknown"
	}
}

// ActionError is a recoverable rejection of a player action. The state is
// left unchanged whenever one is returned.
type ActionError struct {
	Kind   ErrorKind
	Reason string
}

func (e *ActionError) Error() string {
	return e.Reason
}

func newActionError(kind ErrorKind, reason string) *ActionError {
	return &ActionError{Kind: kind, Reason: reason}
}

// Phase mismatches.
var (
	ErrWrongPhase      = newActionError(KindPhase, "action not allowed in the current phase")
	ErrRoundInProgress = newActionError(KindPhase, "a round is already in progress")
)

// Authorization failures.
var (
	ErrNotYourTurn   = newActionError(KindAuthorization, "it is not your turn")
	ErrNotBanker     = newActionError(KindAuthorization, "only the banker can do that")
	ErrNoBanker      = newActionError(KindAuthorization, "there is no banker yet")
	ErrUnknownPlayer = newActionError(KindAuthorization, "player is not seated in this game")
)

// Malformed input.
var (
	ErrUnknownCard     = newActionError(KindMalformed, "unknown card id")
	ErrBidTooLow       = newActionError(KindMalformed, "bid must be 0 (pass) or at least the minimum")
	ErrBadSuit         = newActionError(KindMalformed, "trump must be one of S/H/D/C")
	ErrDiscardCount    = newActionError(KindMalformed, "wrong number of bottom cards")
	ErrPlaySize        = newActionError(KindMalformed, "you can only play 1 or 2 cards")
	ErrDuplicateCard   = newActionError(KindMalformed, "the same card was submitted twice")
	ErrPlayerCount     = newActionError(KindMalformed, "wrong number of players for a round")
	ErrTooManyFriends  = newActionError(KindMalformed, "more friends than other players")
	ErrUnknownTarget   = newActionError(KindMalformed, "no such player")
	ErrDuplicatePlayer = newActionError(KindMalformed, "player is already seated")
	ErrTableFull       = newActionError(KindMalformed, "the table is full")
)

// Ownership failures.
var (
	ErrCardNotHeld = newActionError(KindOwnership, "card is not in your hand")
)

// Rule violations from the trick-play legality engine.
var (
	ErrLeadNotPair       = newActionError(KindRule, "two cards must be a pair (same suit, same rank, different copy)")
	ErrMustPlayTwo       = newActionError(KindRule, "a pair was led, you must play 2 cards")
	ErrMustPlayOne       = newActionError(KindRule, "a single was led, you must play 1 card")
	ErrMustFollowSuit    = newActionError(KindRule, "you must follow the led suit")
	ErrMustFollowPair    = newActionError(KindRule, "you hold a pair in the led suit and must play a pair from it")
	ErrMustIncludeSuit   = newActionError(KindRule, "you hold the led suit and must play at least one card of it")
	ErrMustPlayTwoOfSuit = newActionError(KindRule, "you hold 2 or more cards of the led suit and must play two of them")
)

// KindOf returns the kind of an action error, and false for any other error.
func KindOf(err error) (ErrorKind, bool) {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}
