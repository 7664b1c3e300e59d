package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"livepoll/internal/domain/vote"
	"livepoll/internal/metrics"
	"livepoll/internal/platform/apperr"
)

type voteRequest struct {
	VoterID  int64 `json:"voter_id"`
	OptionID int64 `json:"option_id"`
}

type voteResponse struct {
	Message string     `json:"message"`
	Vote    *vote.Vote `json:"vote"`
}

// @Summary     Vote for an option
// @Description Records one vote. Subscribers on /ws receive the updated results of the poll.
// @Tags        votes
// @Accept      json
// @Produce     json
// @Param       request  body      voteRequest  true  "Vote payload"
// @Success     201      {object}  voteResponse
// @Failure     400      {object}  map[string]string  "invalid body"
// @Failure     404      {object}  map[string]string  "voter or option not found"
// @Failure     409      {object}  map[string]string  "already voted"
// @Failure     429      {object}  map[string]string  "rate limited"
// @Failure     503      {object}  map[string]string  "store unavailable"
// @Router      /api/v1/votes [post]
func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.IncVote("invalid")
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	v, err := h.ledger.Commit(r.Context(), req.VoterID, req.OptionID)
	if err != nil {
		metrics.IncVote(voteOutcome(err))
		errorResponse(w, err)
		return
	}
	metrics.IncVote("accepted")

	writeJSON(w, http.StatusCreated, voteResponse{Message: "vote recorded", Vote: v})
}

func voteOutcome(err error) string {
	switch {
	case errors.Is(err, vote.ErrInvalidVote):
		return "invalid"
	case errors.Is(err, vote.ErrDuplicateVote):
		return "duplicate"
	case errors.Is(err, vote.ErrVoterNotFound), errors.Is(err, vote.ErrOptionNotFound):
		return "not_found"
	case errors.Is(err, apperr.ErrUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
