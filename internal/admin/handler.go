// Package admin exposes the operator-facing read surface: the deletion
// request history and audit trail for a single identifier.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/models"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/audit"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/platform/middleware"
	dErrors "github.com/BikashBaishnab/horibol-website-sub000/pkg/domain-errors"
	"github.com/BikashBaishnab/horibol-website-sub000/pkg/platform/httputil"
)

// HistoryReader lists the issuance history for an identifier.
type HistoryReader interface {
	History(ctx context.Context, identifier string) ([]*models.DeletionRequest, error)
}

// AuditReader lists the audit trail for an identifier.
type AuditReader interface {
	List(ctx context.Context, identifier string) ([]audit.Event, error)
}

// Handler handles the admin endpoints.
type Handler struct {
	logger    *slog.Logger
	history   HistoryReader
	auditLog  AuditReader
	validator middleware.TokenValidator
}

func New(history HistoryReader, auditLog AuditReader, validator middleware.TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		history:   history,
		auditLog:  auditLog,
		validator: validator,
	}
}

// Register registers the admin routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	adminRouter := chi.NewRouter()
	adminRouter.Use(middleware.Recovery(h.logger))
	adminRouter.Use(middleware.RequestID)
	adminRouter.Use(middleware.Logger(h.logger))
	adminRouter.Use(middleware.Timeout(15 * time.Second))
	adminRouter.Use(middleware.RequireAdmin(h.validator, h.logger))
	adminRouter.Get("/deletion-requests", h.handleListDeletionRequests)

	// Mounted under a prefix so the public deletion router keeps the root.
	r.Mount("/admin", adminRouter)
}

type deletionRequestView struct {
	ID           string     `json:"id"`
	Identifier   string     `json:"identifier"`
	Reason       string     `json:"reason,omitempty"`
	Status       string     `json:"status"`
	Channel      string     `json:"channel"`
	Device       string     `json:"device,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	OTPExpiresAt time.Time  `json:"otp_expires_at"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
}

type listResponse struct {
	Requests []deletionRequestView `json:"requests"`
	Audit    []audit.Event         `json:"audit"`
}

func (h *Handler) handleListDeletionRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	identifier := r.URL.Query().Get("identifier")
	if identifier == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "identifier query parameter is required"))
		return
	}

	rows, err := h.history.History(ctx, identifier)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list deletion requests",
			"request_id", requestID,
			"admin", middleware.GetAdminSubject(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	events, err := h.auditLog.List(ctx, rowsIdentifier(rows, identifier))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit events",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	views := make([]deletionRequestView, 0, len(rows))
	for _, row := range rows {
		views = append(views, deletionRequestView{
			ID:           row.ID.String(),
			Identifier:   row.Identifier,
			Reason:       row.Reason,
			Status:       string(row.Status),
			Channel:      string(row.Channel),
			Device:       row.Device,
			CreatedAt:    row.CreatedAt,
			OTPExpiresAt: row.OTPExpiresAt,
			VerifiedAt:   row.VerifiedAt,
		})
	}

	httputil.WriteJSON(w, http.StatusOK, listResponse{Requests: views, Audit: events})
}

// rowsIdentifier prefers the normalized identifier from stored rows so the
// audit lookup matches how events were keyed.
func rowsIdentifier(rows []*models.DeletionRequest, fallback string) string {
	if len(rows) > 0 {
		return rows[0].Identifier
	}
	return fallback
}
