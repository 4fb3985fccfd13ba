package game

import "time"

type Severity string

const (
	SeverityLow     Severity = "low"
	SeverityMedium  Severity = "medium"
	SeverityHigh    Severity = "high"
	SeverityExtreme Severity = "extreme"
)

type EventType string

const (
	EventBoom      EventType = "boom"
	EventDecline   EventType = "decline"
	EventCrash     EventType = "crash"
	EventBullRun   EventType = "bull_run"
	EventInflation EventType = "inflation"
	EventDeflation EventType = "deflation"
)

type CorporateActionType string

const (
	ActionDividend   CorporateActionType = "dividend"
	ActionRightIssue CorporateActionType = "right_issue"
	ActionBonusIssue CorporateActionType = "bonus_issue"
)

type RightsIssueStatus string

const (
	RightsPending RightsIssueStatus = "pending"
	RightsActive  RightsIssueStatus = "active"
	RightsExpired RightsIssueStatus = "expired"
)

type ExclusionPhase string

const (
	ExclusionPhaseActive    ExclusionPhase = "active"
	ExclusionPhaseCompleted ExclusionPhase = "completed"
)

// Game is the aggregate root. It exclusively owns its players and stocks;
// players and stocks reference each other by id only.
type Game struct {
	ID                  string                     `json:"id"`
	Players             []*Player                  `json:"players"`
	Stocks              []*Stock                   `json:"stocks"`
	CurrentRound        int                        `json:"current_round"`
	MaxRounds           int                        `json:"max_rounds"`
	CurrentTurnInRound  int                        `json:"current_turn_in_round"`
	TurnsPerRound       int                        `json:"turns_per_round"`
	CurrentPlayerIndex  int                        `json:"current_player_index"`
	IsComplete          bool                       `json:"is_complete"`
	LeadershipExclusion *LeadershipExclusionStatus `json:"leadership_exclusion,omitempty"`
	Rules               Rules                      `json:"rules"`
	CreatedAt           time.Time                  `json:"created_at"`
	UpdatedAt           time.Time                  `json:"updated_at"`
}

type Player struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Cash             float64           `json:"cash"`
	Portfolio        []StockHolding    `json:"portfolio"`
	ActionHistory    []TurnLogEntry    `json:"action_history"`
	Events           []*MarketEvent    `json:"events"`
	CorporateActions []*CorporateAction `json:"corporate_actions"`
}

type StockHolding struct {
	Symbol      string  `json:"symbol"`
	Quantity    int     `json:"quantity"`
	AverageCost float64 `json:"average_cost"`
}

type Stock struct {
	Symbol            string       `json:"symbol"`
	Name              string       `json:"name"`
	Price             float64      `json:"price"`
	AvailableQuantity int          `json:"available_quantity"`
	TotalQuantity     int          `json:"total_quantity"`
	ChairmanID        string       `json:"chairman_id,omitempty"`
	DirectorID        string       `json:"director_id,omitempty"`
	PriceHistory      []PricePoint `json:"price_history"`
}

type PricePoint struct {
	Round int     `json:"round"`
	Price float64 `json:"price"`
}

type MarketEvent struct {
	ID             string    `json:"id"`
	Type           EventType `json:"type"`
	Severity       Severity  `json:"severity"`
	AffectedStocks []string  `json:"affected_stocks"`
	Impact         float64   `json:"impact"`
	Round          int       `json:"round"`
	PlayerID       string    `json:"player_id"`
	ExcludedBy     string    `json:"excluded_by,omitempty"`
	Applied        bool      `json:"applied"`
	PriceDiff      float64   `json:"price_diff,omitempty"`
	ActualImpact   float64   `json:"actual_impact,omitempty"`
}

// CorporateAction is a tagged union: Type selects which details payload is
// populated.
type CorporateAction struct {
	ID               string              `json:"id"`
	Type             CorporateActionType `json:"type"`
	Symbol           string              `json:"symbol,omitempty"`
	Round            int                 `json:"round"`
	PlayerID         string              `json:"player_id"`
	Played           bool                `json:"played"`
	PlayersProcessed []string            `json:"players_processed,omitempty"`
	Dividend         *DividendDetails    `json:"dividend,omitempty"`
	BonusIssue       *BonusIssueDetails  `json:"bonus_issue,omitempty"`
	RightsIssue      *RightsIssueDetails `json:"rights_issue,omitempty"`
}

type DividendDetails struct {
	Percentage float64 `json:"percentage"`
}

type BonusIssueDetails struct {
	Ratio      int `json:"ratio"`
	BaseShares int `json:"base_shares"`
}

type RightsIssueDetails struct {
	DiscountPercent   float64           `json:"discount_percent"`
	Status            RightsIssueStatus `json:"status"`
	ExpiresAtPlayerID string            `json:"expires_at_player_id,omitempty"`
	EligiblePlayerIDs []string          `json:"eligible_player_ids,omitempty"`
}

// LeadershipExclusionStatus is the persisted sub-phase state; it must be
// enough on its own to resume the workflow across client round-trips.
type LeadershipExclusionStatus struct {
	Phase              ExclusionPhase `json:"phase"`
	LeaderIDs          []string       `json:"leader_ids"`
	CurrentLeaderIndex int            `json:"current_leader_index"`
	CompletedLeaderIDs []string       `json:"completed_leader_ids"`
}

type TurnLogEntry struct {
	Round      int       `json:"round"`
	Turn       int       `json:"turn"`
	Action     string    `json:"action"`
	Symbol     string    `json:"symbol,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	Price      float64   `json:"price,omitempty"`
	TotalValue float64   `json:"total_value,omitempty"`
	Result     string    `json:"result"`
	Timestamp  time.Time `json:"timestamp"`
}

type ActionType string

const (
	ActionBuy            ActionType = "buy"
	ActionSell           ActionType = "sell"
	ActionSkip           ActionType = "skip"
	ActionPlayCorporate  ActionType = "play_corporate_action"
	ActionExerciseRights ActionType = "exercise_rights"
)

type ActionRequest struct {
	Type              ActionType `json:"type"`
	Symbol            string     `json:"symbol,omitempty"`
	Quantity          int        `json:"quantity,omitempty"`
	CorporateActionID string     `json:"corporate_action_id,omitempty"`
}

type ActionResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Toasts  []string `json:"toasts,omitempty"`
}

// TurnOutcome reports what EndTurn triggered.
type TurnOutcome struct {
	RoundEnded       bool `json:"round_ended"`
	ExclusionStarted bool `json:"exclusion_started"`
	GameOver         bool `json:"game_over"`
}

// Views returned by the read endpoints.

type PortfolioView struct {
	PlayerID  string        `json:"player_id"`
	Name      string        `json:"name"`
	Cash      float64       `json:"cash"`
	Holdings  []HoldingView `json:"holdings"`
	NetWorth  float64       `json:"net_worth"`
	HoldValue float64       `json:"holdings_value"`
}

type HoldingView struct {
	Symbol        string  `json:"symbol"`
	Quantity      int     `json:"quantity"`
	AverageCost   float64 `json:"average_cost"`
	CurrentPrice  float64 `json:"current_price"`
	MarketValue   float64 `json:"market_value"`
	CostBasis     float64 `json:"cost_basis"`
	ProfitLoss    float64 `json:"profit_loss"`
	ProfitLossPct float64 `json:"profit_loss_pct"`
}

type ExclusionView struct {
	Phase           ExclusionPhase `json:"phase"`
	LeaderIDs       []string       `json:"leader_ids"`
	CurrentLeaderID string         `json:"current_leader_id,omitempty"`
	Completed       []string       `json:"completed_leader_ids"`
	Excludable      []*MarketEvent `json:"excludable_events"`
}
