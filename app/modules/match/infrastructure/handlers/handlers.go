// Package matchhandlers exposes the import and ranking pipeline over HTTP.
package matchhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	matchdto "github.com/High-Desert-Practical/match-sync/app/modules/match/dto"
	matchdb "github.com/High-Desert-Practical/match-sync/app/modules/match/infrastructure/repositories"
	"github.com/High-Desert-Practical/match-sync/internal/attr"
	"github.com/High-Desert-Practical/match-sync/internal/faults"
)

// maxImportBody caps the accepted container size at 32 MiB.
const maxImportBody = 32 << 20

// Service is the application surface the handlers call into.
type Service interface {
	ImportContainer(ctx context.Context, content []byte) (*matchdto.ImportResult, error)
	RefreshClubRankings(ctx context.Context, clubName string) (*matchdto.RefreshResult, error)
	RefreshClubMatchRankings(ctx context.Context, clubName, matchName string) (*matchdto.RefreshResult, error)
	GetMatchStandings(ctx context.Context, matchName string) (*matchdto.MatchStandings, error)
}

// StandingsWriter renders a standings workbook to w.
type StandingsWriter interface {
	Write(w io.Writer, standings *matchdto.MatchStandings) error
}

// MatchHandlers wires the match service to chi routes.
type MatchHandlers struct {
	service Service
	reports StandingsWriter
	logger  *slog.Logger
}

// NewMatchHandlers creates the handler set.
func NewMatchHandlers(service Service, reports StandingsWriter, logger *slog.Logger) *MatchHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchHandlers{service: service, reports: reports, logger: logger}
}

// Routes mounts the handler set on a router. The rate limiter guards the
// import endpoint only; refreshes and reports are cheap by comparison.
func (h *MatchHandlers) Routes(limiter *IPRateLimiter) chi.Router {
	r := chi.NewRouter()
	r.Use(h.correlationMiddleware)

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(RateLimitMiddleware(limiter))
		}
		r.Post("/import", h.HandleImport)
	})
	r.Post("/rankings/clubs/{clubName}/refresh", h.HandleRefreshClub)
	r.Post("/rankings/clubs/{clubName}/matches/{matchName}/refresh", h.HandleRefreshClubMatch)
	r.Get("/matches/{matchName}/report.xlsx", h.HandleStandingsReport)
	return r
}

// correlationMiddleware stamps each request with a correlation ID.
func (h *MatchHandlers) correlationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get("X-Correlation-ID")
		if cid == "" {
			cid = uuid.NewString()
		}
		w.Header().Set("X-Correlation-ID", cid)
		next.ServeHTTP(w, r.WithContext(attr.WithCorrelationID(r.Context(), cid)))
	})
}

// HandleImport accepts a raw export container as the request body.
func (h *MatchHandlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	content, err := io.ReadAll(io.LimitReader(r.Body, maxImportBody))
	if err != nil {
		h.writeError(w, r, faults.Fatal("failed to read import body", err))
		return
	}

	result, err := h.service.ImportContainer(r.Context(), content)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

// HandleRefreshClub recomputes a club's stale rankings across its matches.
func (h *MatchHandlers) HandleRefreshClub(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.RefreshClubRankings(r.Context(), chi.URLParam(r, "clubName"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

// HandleRefreshClubMatch is HandleRefreshClub scoped to one match.
func (h *MatchHandlers) HandleRefreshClubMatch(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.RefreshClubMatchRankings(r.Context(),
		chi.URLParam(r, "clubName"), chi.URLParam(r, "matchName"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

// HandleStandingsReport streams the match standings workbook.
func (h *MatchHandlers) HandleStandingsReport(w http.ResponseWriter, r *http.Request) {
	matchName := chi.URLParam(r, "matchName")
	standings, err := h.service.GetMatchStandings(r.Context(), matchName)
	if err != nil {
		if errors.Is(err, matchdb.ErrNotFound) {
			h.writeJSON(w, r, http.StatusNotFound, map[string]string{"error": "match not found"})
			return
		}
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", standings.Match+".xlsx"))
	if err := h.reports.Write(w, standings); err != nil {
		// Headers are gone; all we can do is log.
		h.logger.ErrorContext(r.Context(), "Failed to stream standings workbook",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("match", matchName),
			attr.Error(err),
		)
	}
}

// writeError maps the failure kinds onto status codes: validation defects
// are the caller's to correct (400), fatal and infrastructure faults are
// ours (500).
func (h *MatchHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if faults.IsValidation(err) && !faults.IsFatal(err) {
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
	}
	h.writeJSON(w, r, status, map[string]string{"error": err.Error()})
}

func (h *MatchHandlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to encode response",
			attr.ExtractCorrelationID(r.Context()),
			attr.Error(err),
		)
	}
}
