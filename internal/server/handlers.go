package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"stocksim/internal/engine"
	"stocksim/internal/listing"
	"stocksim/internal/report"
	"stocksim/internal/wizard"
	"stocksim/types"

	"github.com/shopspring/decimal"
)

const maxRequestBody = 1 << 20

type assetResponse struct {
	Ticker string          `json:"ticker"`
	Name   string          `json:"name"`
	Type   types.AssetType `json:"type,omitempty"`
	Label  string          `json:"label"`
}

type historyResponse struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	DefaultStart string `json:"defaultStart"`
	DefaultEnd   string `json:"defaultEnd"`
}

type simulationRequest struct {
	Assets      []string                   `json:"assets"`
	Start       string                     `json:"start,omitempty"`
	End         string                     `json:"end,omitempty"`
	Investments map[string]decimal.Decimal `json:"investments"`
}

type simulationResponse struct {
	*engine.Result
	Table report.Table `json:"table"`
}

// handleHealth returns a health check response
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	assets := s.catalog.Assets()
	out := make([]assetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, assetResponse{
			Ticker: a.Ticker,
			Name:   a.Name,
			Type:   a.Type,
			Label:  listing.Label(a),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	bounds, err := s.simulator.HistoryBounds(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	def := wizard.DefaultRange(bounds)
	s.writeJSON(w, http.StatusOK, historyResponse{
		Start:        bounds.Start.Format(types.DateLayout),
		End:          bounds.End.Format(types.DateLayout),
		DefaultStart: def.Start.Format(types.DateLayout),
		DefaultEnd:   def.End.Format(types.DateLayout),
	})
}

// handleSimulate runs the request through the same select and invest steps
// as the CLI, then computes and renders the result.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	bounds, err := s.simulator.HistoryBounds(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	session := wizard.NewSession(bounds)

	dateRange := session.Range()
	if req.Start != "" {
		start, err := types.ParseDate(req.Start)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		dateRange.Start = start
	}
	if req.End != "" {
		end, err := types.ParseDate(req.End)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		dateRange.End = end
	}

	if err := session.Select(req.Assets, dateRange); err != nil {
		s.writeFailure(w, err)
		return
	}
	if err := session.Invest(types.Investments(req.Investments)); err != nil {
		s.writeFailure(w, err)
		return
	}
	sim, err := session.Simulation()
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	result, err := s.simulator.Compute(r.Context(), sim)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, simulationResponse{
		Result: result,
		Table:  report.Render(result.Positions, result.Totals, report.WithCurrencySymbol(s.symbol)),
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, engine.ErrInvalidSelection) ||
		errors.Is(err, engine.ErrInvalidRange) ||
		errors.Is(err, engine.ErrInvalidInvestment) ||
		errors.Is(err, wizard.ErrStepNotReached)
}

// writeFailure maps validation errors to 400 and anything else to 500.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	if isValidationError(err) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.Error().Err(err).Msg("request failed")
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
