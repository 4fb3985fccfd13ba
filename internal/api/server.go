package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"boardroom/internal/config"
	"boardroom/internal/game"
	"boardroom/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	cfg  config.APIConfig
	log  *slog.Logger
	game *game.Service
	mux  *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, gameSvc *game.Service) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:  cfg,
		log:  logger,
		game: gameSvc,
		mux:  chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	timeout := s.cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/games", s.handleCreateGame)
		r.Route("/games/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGame)
			r.Post("/actions", s.handleAction)
			r.Post("/end-turn", s.handleEndTurn)
			r.Get("/exclusion", s.handleExclusionState)
			r.Post("/exclusion/exclude", s.handleExclude)
			r.Post("/exclusion/next", s.handleNextLeader)
			r.Get("/players/{playerID}/portfolio", s.handlePortfolio)
		})
	})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Players []string    `json:"players"`
		Rules   *game.Rules `json:"rules,omitempty"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rules := s.cfg.Rules
	if in.Rules != nil {
		rules = *in.Rules
	}
	g, err := s.game.CreateGame(r.Context(), in.Players, rules)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.game.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerHeader(w, r)
	if !ok {
		return
	}
	var in game.ActionRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.game.Apply(r.Context(), chi.URLParam(r, "id"), playerID, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	// Validation failures are a successful request with success=false.
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerHeader(w, r)
	if !ok {
		return
	}
	out, err := s.game.EndTurn(r.Context(), chi.URLParam(r, "id"), playerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleExclusionState(w http.ResponseWriter, r *http.Request) {
	view, err := s.game.ExclusionState(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleExclude(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerHeader(w, r)
	if !ok {
		return
	}
	var in struct {
		EventID string `json:"event_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.game.ExcludeEvent(r.Context(), chi.URLParam(r, "id"), playerID, in.EventID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleNextLeader(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerHeader(w, r)
	if !ok {
		return
	}
	out, err := s.game.NextLeader(r.Context(), chi.URLParam(r, "id"), playerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	view, err := s.game.Portfolio(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "playerID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func playerHeader(w http.ResponseWriter, r *http.Request) (string, bool) {
	playerID := strings.TrimSpace(r.Header.Get("X-Player-ID"))
	if playerID == "" {
		writeError(w, http.StatusBadRequest, "missing X-Player-ID header")
		return "", false
	}
	return playerID, true
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, game.ErrGameNotFound),
		errors.Is(err, game.ErrStockNotFound), errors.Is(err, game.ErrPlayerNotFound),
		errors.Is(err, game.ErrCardNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrNotYourTurn), errors.Is(err, game.ErrExclusionActive),
		errors.Is(err, game.ErrExclusionInactive), errors.Is(err, game.ErrNotCurrentLeader),
		errors.Is(err, game.ErrGameComplete):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrInsufficientFunds), errors.Is(err, game.ErrInsufficientShares),
		errors.Is(err, game.ErrInvalidQuantity), errors.Is(err, game.ErrInvalidSymbol),
		errors.Is(err, game.ErrCardAlreadyPlayed), errors.Is(err, game.ErrNotEligible),
		errors.Is(err, game.ErrOfferNotActive):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
