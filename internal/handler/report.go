package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fixmycity/internal/httputil"
	"fixmycity/internal/model"
	"fixmycity/internal/repository"
	"fixmycity/internal/transport/http/middleware"
)

const (
	defaultFeedLimit = 5
	maxFeedLimit     = 50
)

// ReportHandler serves /report. Errors use the {"message": ...} shape.
type ReportHandler struct {
	reports repository.ReportRepository
	users   repository.UserRepository
	logger  zerolog.Logger
}

func NewReportHandler(reports repository.ReportRepository, users repository.UserRepository, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		users:   users,
		logger:  logger.With().Str("component", "ReportHandler").Logger(),
	}
}

type listResponse struct {
	Reports      []model.Report `json:"reports"`
	CurrentPage  int            `json:"currentPage"`
	TotalReports int            `json:"totalReports"`
	TotalPages   int            `json:"totalPages"`
}

// Create handles POST /report/
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Caption) == "" || req.Image == "" || req.Rating == "" {
		httputil.WriteBadRequest(w, "Please provide all fields")
		return
	}
	rating, err := strconv.Atoi(req.Rating)
	if err != nil || !model.Rating(rating).Valid() {
		httputil.WriteBadRequest(w, "Rating must be a whole number from 1 to 5")
		return
	}
	if !strings.HasPrefix(req.Image, "data:image/") && !strings.HasPrefix(req.Image, "http") {
		httputil.WriteBadRequest(w, "Image must be a data URI or URL")
		return
	}

	author, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		httputil.WriteUnauthorized(w, "Token is not valid")
		return
	}

	rep := &model.Report{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Caption:   req.Caption,
		Image:     req.Image,
		Rating:    model.Rating(rating),
		Place:     req.Place,
		Lat:       req.Lat,
		Lng:       req.Lng,
		CreatedAt: time.Now().UTC(),
		User:      &author.Profile,
	}
	if err := h.reports.Create(r.Context(), rep); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Create report FAILED")
		httputil.WriteInternalError(w, "Internal server error")
		return
	}

	h.logger.Info().Str("user_id", userID).Str("report_id", rep.ID).Msg("Create report OK")
	httputil.WriteJSON(w, http.StatusCreated, rep)
}

// List handles GET /report?page=&limit=, newest first.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := min(queryInt(r, "limit", defaultFeedLimit), maxFeedLimit)
	// keeps (page-1)*limit from overflowing
	page := min(queryInt(r, "page", 1), math.MaxInt/limit)

	reports, total, err := h.reports.List(r.Context(), (page-1)*limit, limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("List reports FAILED")
		httputil.WriteInternalError(w, "Internal server error")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, listResponse{
		Reports:      reports,
		CurrentPage:  page,
		TotalReports: total,
		TotalPages:   (total + limit - 1) / limit,
	})
}

// Mine handles GET /report/mine
func (h *ReportHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	reports, err := h.reports.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("List own reports FAILED")
		httputil.WriteInternalError(w, "Internal server error")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reports)
}

// Delete handles DELETE /report/{id}. Only the author may delete.
func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	id := chi.URLParam(r, "id")

	rep, err := h.reports.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrReportNotFound) {
			httputil.WriteNotFound(w, "Report not found")
			return
		}
		httputil.WriteInternalError(w, "Internal server error")
		return
	}
	if rep.User == nil || rep.User.ID != userID {
		httputil.WriteUnauthorized(w, "Unauthorized")
		return
	}

	if err := h.reports.Delete(r.Context(), id); err != nil && !errors.Is(err, model.ErrReportNotFound) {
		h.logger.Error().Err(err).Str("report_id", id).Msg("Delete report FAILED")
		httputil.WriteInternalError(w, "Internal server error")
		return
	}

	h.logger.Info().Str("user_id", userID).Str("report_id", id).Msg("Delete report OK")
	httputil.WriteMessage(w, http.StatusOK, "Report deleted successfully")
}

// queryInt reads a positive integer query parameter.
func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
