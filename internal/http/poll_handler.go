package api

import (
	"encoding/json"
	"net/http"

	"livepoll/internal/domain/poll"
	"livepoll/internal/platform/apperr"
)

type createPollRequest struct {
	Question  string   `json:"question"`
	CreatorID int64    `json:"creator_id"`
	Options   []string `json:"options"`
}

type optionResponse struct {
	poll.Option
	VoteCount int64 `json:"vote_count"`
}

// @Summary     Create a poll
// @Tags        polls
// @Accept      json
// @Produce     json
// @Param       request  body      createPollRequest  true  "Poll payload"
// @Success     201      {object}  poll.Poll
// @Failure     400      {object}  map[string]string  "invalid body"
// @Failure     404      {object}  map[string]string  "creator not found"
// @Router      /api/v1/polls [post]
func (h *Handler) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	p := &poll.Poll{
		Question:  req.Question,
		CreatorID: req.CreatorID,
		Options:   make([]poll.Option, 0, len(req.Options)),
	}
	for _, text := range req.Options {
		p.Options = append(p.Options, poll.Option{Text: text})
	}

	if err := h.pollSvc.Create(r.Context(), p); err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) handleListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.pollSvc.List(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

// @Summary     Get a poll
// @Tags        polls
// @Produce     json
// @Param       id   path      int64  true  "Poll ID"
// @Success     200  {object}  poll.Poll
// @Failure     400  {object}  map[string]string  "invalid poll id"
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/polls/{id} [get]
func (h *Handler) handleGetPoll(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	p, err := h.pollSvc.Get(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// @Summary     Poll results
// @Description Same snapshot that is pushed to websocket subscribers.
// @Tags        polls
// @Produce     json
// @Param       id   path      int64  true  "Poll ID"
// @Success     200  {object}  results.Snapshot
// @Failure     400  {object}  map[string]string  "invalid poll id"
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/polls/{id}/results [get]
func (h *Handler) handlePollResults(w http.ResponseWriter, r *http.Request) {
	pollID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	snap, err := h.aggregator.Compute(r.Context(), pollID)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) handleGetOption(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid option id", err))
		return
	}

	opt, err := h.pollSvc.GetOption(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}
	count, err := h.ledger.CountForOption(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, optionResponse{Option: *opt, VoteCount: count})
}
