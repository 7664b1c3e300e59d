package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"livepoll/internal/domain/poll"
	"livepoll/internal/domain/results"
	"livepoll/internal/domain/user"
	"livepoll/internal/domain/vote"
	"livepoll/internal/realtime"
)

type Options struct {
	Conn              realtime.Options
	VoteRatePerMinute int
	VoteRateBurst     int
}

type Handler struct {
	userSvc    *user.Service
	pollSvc    *poll.Service
	ledger     *vote.Ledger
	aggregator *results.Aggregator
	registry   *realtime.Registry
	connOpts   realtime.Options
	db         *sql.DB
}

func NewRouter(
	userSvc *user.Service,
	pollSvc *poll.Service,
	ledger *vote.Ledger,
	aggregator *results.Aggregator,
	registry *realtime.Registry,
	db *sql.DB,
	opts Options,
) http.Handler {
	h := &Handler{
		userSvc:    userSvc,
		pollSvc:    pollSvc,
		ledger:     ledger,
		aggregator: aggregator,
		registry:   registry,
		connOpts:   opts.Conn,
		db:         db,
	}

	perMinute := opts.VoteRatePerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	burst := opts.VoteRateBurst
	if burst <= 0 {
		burst = 10
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(RequestLogger)
	r.Use(CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	// websocket connections outlive any request timeout
	r.Get("/ws", h.handleSubscribe)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Timeout(60 * time.Second))

		r.Post("/users", h.handleRegisterUser)
		r.Get("/users", h.handleListUsers)

		r.Post("/polls", h.handleCreatePoll)
		r.Get("/polls", h.handleListPolls)
		r.Get("/polls/{id}", h.handleGetPoll)
		r.Get("/polls/{id}/results", h.handlePollResults)

		r.Get("/options/{id}", h.handleGetOption)

		r.With(RateLimitVotes(rate.Every(time.Minute/time.Duration(perMinute)), burst)).
			Post("/votes", h.handleVote)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not ready",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
