package game

import (
	"errors"
	"math"
	"regexp"
	"strings"
)

const (
	DefaultMaxRounds     = 10
	DefaultTurnsPerRound = 3
	DefaultStartingCash  = float64(10_000)
	DefaultStockSupply   = 20_000

	DefaultChairmanThreshold = 0.5
	DefaultDirectorThreshold = 0.25

	DefaultHandEvents           = 2
	DefaultHandCorporateActions = 1

	MaxPlayers = 8
)

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameComplete       = errors.New("game is already complete")
	ErrStockNotFound      = errors.New("stock not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrInvalidQuantity    = errors.New("quantity must be > 0")
	ErrExclusionActive    = errors.New("leadership exclusion phase in progress")
	ErrExclusionInactive  = errors.New("no leadership exclusion phase in progress")
	ErrNotCurrentLeader   = errors.New("not the current leader")
	ErrCardNotFound       = errors.New("card not found")
	ErrCardAlreadyPlayed  = errors.New("card already played")
	ErrNotEligible        = errors.New("player not eligible for this offer")
	ErrOfferNotActive     = errors.New("offer is not active")
	ErrInvalidSymbol      = errors.New("symbol must be 3 to 6 uppercase letters")
)

var symbolRE = regexp.MustCompile(`^[A-Z]{3,6}$`)

func ValidateSymbol(symbol string) error {
	if !symbolRE.MatchString(strings.TrimSpace(symbol)) {
		return ErrInvalidSymbol
	}
	return nil
}

// Rules are the per-game tunables fixed at creation time.
type Rules struct {
	MaxRounds            int     `json:"max_rounds"`
	TurnsPerRound        int     `json:"turns_per_round"`
	StartingCash         float64 `json:"starting_cash"`
	PriceFloor           float64 `json:"price_floor"`
	ChairmanThreshold    float64 `json:"chairman_threshold"`
	DirectorThreshold    float64 `json:"director_threshold"`
	HandEvents           int     `json:"hand_events"`
	HandCorporateActions int     `json:"hand_corporate_actions"`
}

func DefaultRules() Rules {
	return Rules{
		MaxRounds:            DefaultMaxRounds,
		TurnsPerRound:        DefaultTurnsPerRound,
		StartingCash:         DefaultStartingCash,
		PriceFloor:           0,
		ChairmanThreshold:    DefaultChairmanThreshold,
		DirectorThreshold:    DefaultDirectorThreshold,
		HandEvents:           DefaultHandEvents,
		HandCorporateActions: DefaultHandCorporateActions,
	}
}

func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.MaxRounds <= 0 {
		r.MaxRounds = d.MaxRounds
	}
	if r.TurnsPerRound <= 0 {
		r.TurnsPerRound = d.TurnsPerRound
	}
	if r.StartingCash <= 0 {
		r.StartingCash = d.StartingCash
	}
	if r.PriceFloor < 0 {
		r.PriceFloor = 0
	}
	if r.ChairmanThreshold <= 0 || r.ChairmanThreshold > 1 {
		r.ChairmanThreshold = d.ChairmanThreshold
	}
	if r.DirectorThreshold <= 0 || r.DirectorThreshold >= r.ChairmanThreshold {
		r.DirectorThreshold = d.DirectorThreshold
	}
	if r.HandEvents <= 0 {
		r.HandEvents = d.HandEvents
	}
	if r.HandCorporateActions <= 0 {
		r.HandCorporateActions = d.HandCorporateActions
	}
	return r
}

// round2 keeps every money value at cent precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
