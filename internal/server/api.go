package server

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/lox/handrank/internal/deck"
	"github.com/lox/handrank/internal/evaluator"
	"github.com/lox/handrank/internal/history"
	"github.com/lox/handrank/internal/odds"
	"github.com/lox/handrank/internal/randutil"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidCard     = "invalid_card"
	CodeInvalidHandSize = "invalid_hand_size"
	CodeDuplicateCard   = "duplicate_card"
	CodeInvalidRules    = "invalid_rules"
	CodeBadRequest      = "bad_request"
	CodeNotFound        = "not_found"
	CodeTimeout         = "timeout"
	CodeInternal        = "internal"
)

// MaxOddsIterations bounds the Monte Carlo work a single request may ask for.
const MaxOddsIterations = 200000

// RulesRequest overrides the server's default rules for one request.
type RulesRequest struct {
	Standard      bool   `json:"standard,omitempty"`
	StraightFlush *bool  `json:"straightFlush,omitempty"`
	Wheel         *bool  `json:"wheel,omitempty"`
	Selection     string `json:"selection,omitempty"`
}

type ClassifyRequest struct {
	Hole      string        `json:"hole"`
	Community string        `json:"community"`
	Rules     *RulesRequest `json:"rules,omitempty"`
}

type HandResponse struct {
	Category    evaluator.Category `json:"category"`
	Name        string             `json:"name"`
	Cards       []string           `json:"cards"`
	Notation    string             `json:"notation"`
	Description string             `json:"description"`
	Kickers     []string           `json:"kickers"`
	RecordID    string             `json:"recordId,omitempty"`
}

type CompareRequest struct {
	Players   []string      `json:"players"`
	Community string        `json:"community"`
	Rules     *RulesRequest `json:"rules,omitempty"`
}

type CompareResponse struct {
	Hands       []HandResponse `json:"hands"`
	Winners     []int          `json:"winners"`
	Explanation string         `json:"explanation,omitempty"`
}

type OddsRequest struct {
	Hole       string        `json:"hole"`
	Board      string        `json:"board"`
	Iterations int           `json:"iterations,omitempty"`
	Seed       *int64        `json:"seed,omitempty"`
	Rules      *RulesRequest `json:"rules,omitempty"`
}

type CategoryOdds struct {
	Category    evaluator.Category `json:"category"`
	Count       int                `json:"count"`
	Probability float64            `json:"probability"`
}

type OddsResponse struct {
	Exact      bool           `json:"exact"`
	Samples    int            `json:"samples"`
	Categories []CategoryOdds `json:"categories"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type HistoryResponse struct {
	Records []history.Record `json:"records"`
}

// apiError carries the HTTP status and code for a failed request.
type apiError struct {
	status int
	code   string
	err    error
}

func (e *apiError) Error() string { return e.err.Error() }
func (e *apiError) Unwrap() error { return e.err }

func badRequest(code string, err error) error {
	return &apiError{status: http.StatusBadRequest, code: code, err: err}
}

// errorResponse maps err to a status and response body.
func errorResponse(err error) (int, ErrorResponse) {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.status, ErrorResponse{Error: ae.Error(), Code: ae.code}
	}

	code := CodeInternal
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, deck.ErrInvalidCard):
		code = CodeInvalidCard
	case errors.Is(err, evaluator.ErrInvalidHandSize), errors.Is(err, odds.ErrInvalidInput):
		code = CodeInvalidHandSize
	case errors.Is(err, evaluator.ErrDuplicateCard):
		code = CodeDuplicateCard
	case errors.Is(err, history.ErrNotFound):
		code, status = CodeNotFound, http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		code, status = CodeTimeout, http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}
	return status, ErrorResponse{Error: err.Error(), Code: code}
}

func newHandResponse(h evaluator.Hand) HandResponse {
	resp := HandResponse{
		Category:    h.Category,
		Name:        h.Category.String(),
		Cards:       make([]string, len(h.Cards)),
		Notation:    deck.FormatNotation(h.Cards),
		Description: h.Describe(),
		Kickers:     make([]string, len(h.Kickers)),
	}
	for i, c := range h.Cards {
		resp.Cards[i] = c.String()
	}
	for i, k := range h.Kickers {
		resp.Kickers[i] = k.String()
	}
	return resp
}

func (s *Server) evaluatorFor(req *RulesRequest) (*evaluator.Evaluator, error) {
	if req == nil {
		return s.evaluator, nil
	}
	rules := s.evaluator.Rules()
	if req.Standard {
		rules.StraightFlush, rules.Wheel = true, true
	}
	if req.StraightFlush != nil {
		rules.StraightFlush = *req.StraightFlush
	}
	if req.Wheel != nil {
		rules.Wheel = *req.Wheel
	}
	if req.Selection != "" {
		sel, err := evaluator.ParseSelection(req.Selection)
		if err != nil {
			return nil, badRequest(CodeInvalidRules, err)
		}
		rules.Selection = sel
	}
	return evaluator.New(evaluator.WithRules(rules)), nil
}

// classify evaluates req and records the result when history is enabled.
// source tags the record with the transport that produced it.
func (s *Server) classify(ctx context.Context, source string, req ClassifyRequest) (HandResponse, error) {
	ev, err := s.evaluatorFor(req.Rules)
	if err != nil {
		return HandResponse{}, err
	}
	hole, err := deck.ParseCards(req.Hole)
	if err != nil {
		return HandResponse{}, err
	}
	community, err := deck.ParseCards(req.Community)
	if err != nil {
		return HandResponse{}, err
	}

	hand, err := ev.Classify(hole, community)
	if err != nil {
		return HandResponse{}, err
	}
	resp := newHandResponse(hand)

	if s.history != nil {
		rec := history.NewRecord(source, hole, community, hand)
		rec.CreatedAt = s.clock.Now()
		saved, err := s.history.Record(ctx, rec)
		if err != nil {
			s.logger.Error("Failed to record classification", "error", err)
		} else {
			resp.RecordID = saved.ID
		}
	}

	s.logger.Debug("Classified hand", "source", source, "category", hand.Category.Slug(), "cards", resp.Notation)
	return resp, nil
}

func (s *Server) compare(req CompareRequest) (CompareResponse, error) {
	ev, err := s.evaluatorFor(req.Rules)
	if err != nil {
		return CompareResponse{}, err
	}
	if len(req.Players) < 2 {
		return CompareResponse{}, badRequest(CodeBadRequest, errors.New("compare needs at least two players"))
	}

	players := make([][]deck.Card, len(req.Players))
	for i, p := range req.Players {
		if players[i], err = deck.ParseCards(p); err != nil {
			return CompareResponse{}, err
		}
	}
	community, err := deck.ParseCards(req.Community)
	if err != nil {
		return CompareResponse{}, err
	}

	sd, err := ev.Showdown(players, community)
	if err != nil {
		return CompareResponse{}, err
	}

	resp := CompareResponse{Hands: make([]HandResponse, len(sd.Hands)), Winners: sd.Winners}
	for i, h := range sd.Hands {
		resp.Hands[i] = newHandResponse(h)
	}
	if len(sd.Hands) == 2 {
		_, resp.Explanation = sd.Hands[0].CompareWithExplanation(sd.Hands[1])
	}
	return resp, nil
}

func (s *Server) odds(ctx context.Context, req OddsRequest) (OddsResponse, error) {
	ev, err := s.evaluatorFor(req.Rules)
	if err != nil {
		return OddsResponse{}, err
	}
	if req.Iterations < 0 || req.Iterations > MaxOddsIterations {
		return OddsResponse{}, badRequest(CodeBadRequest,
			errors.New("iterations must be between 0 and 200000"))
	}
	hole, err := deck.ParseCards(req.Hole)
	if err != nil {
		return OddsResponse{}, err
	}
	board, err := deck.ParseCards(req.Board)
	if err != nil {
		return OddsResponse{}, err
	}

	iterations := req.Iterations
	if iterations == 0 {
		iterations = s.oddsIterations
	}
	result, err := odds.Calculate(ctx, hole, board, odds.Options{
		Iterations: iterations,
		Workers:    s.oddsWorkers,
		Rand:       randutil.New(randutil.Seed(req.Seed)),
		Evaluator:  ev,
	})
	if err != nil {
		return OddsResponse{}, err
	}

	resp := OddsResponse{Exact: result.Exact, Samples: result.Samples}
	for _, c := range evaluator.Categories {
		if n := result.Counts[c]; n > 0 {
			resp.Categories = append(resp.Categories, CategoryOdds{
				Category:    c,
				Count:       n,
				Probability: result.Probability(c),
			})
		}
	}
	return resp, nil
}
