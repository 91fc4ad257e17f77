// Package handler exposes the account deletion endpoint. Both phases of
// the flow go through a single POST discriminated by the "action" field,
// which is what the storefront wizard speaks.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/models"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/service"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/platform/device"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/platform/middleware"
	dErrors "github.com/BikashBaishnab/horibol-website-sub000/pkg/domain-errors"
	"github.com/BikashBaishnab/horibol-website-sub000/pkg/platform/httputil"
)

// Actions accepted by the deletion endpoint.
const (
	ActionSendOTP   = "send-otp"
	ActionVerifyOTP = "verify-otp"
)

// Service defines the operations the endpoint drives.
type Service interface {
	Initiate(ctx context.Context, in service.InitiateInput) (*service.InitiateResult, error)
	Confirm(ctx context.Context, identifier, code string) error
}

// Handler handles the account deletion endpoint.
type Handler struct {
	logger  *slog.Logger
	account Service
}

// New creates a new account Handler.
func New(account Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		account: account,
	}
}

// Register registers the deletion route with the chi router.
func (h *Handler) Register(r chi.Router) {
	accountRouter := chi.NewRouter()
	accountRouter.Use(middleware.Recovery(h.logger))
	accountRouter.Use(middleware.RequestID)
	accountRouter.Use(middleware.Logger(h.logger))
	accountRouter.Use(middleware.Timeout(30 * time.Second))
	accountRouter.Use(middleware.ContentTypeJSON)
	accountRouter.Post("/api/account/delete", h.handleDelete)

	r.Mount("/", accountRouter)
}

type deleteRequest struct {
	Action     string `json:"action"`
	Identifier string `json:"identifier"`
	Reason     string `json:"reason,omitempty"`
	OTP        string `json:"otp,omitempty"`
}

type sendOTPResponse struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message"`
	Identifier string         `json:"identifier"`
	Channel    models.Channel `json:"channel"`
}

type verifyOTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid deletion request body",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	if req.Identifier == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "identifier is required"))
		return
	}

	switch req.Action {
	case ActionSendOTP:
		h.handleSendOTP(w, r, req)
	case ActionVerifyOTP:
		h.handleVerifyOTP(w, r, req)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "unknown action"))
	}
}

func (h *Handler) handleSendOTP(w http.ResponseWriter, r *http.Request, req deleteRequest) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	res, err := h.account.Initiate(ctx, service.InitiateInput{
		Identifier: req.Identifier,
		Reason:     req.Reason,
		Device:     device.ParseUserAgent(r.UserAgent()),
	})
	if err != nil {
		h.logError(ctx, "send otp failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	message := "Verification code sent to your email"
	if res.Channel == models.ChannelChat {
		message = "Verification code sent to your chat number"
	}
	httputil.WriteJSON(w, http.StatusOK, sendOTPResponse{
		Success:    true,
		Message:    message,
		Identifier: res.Identifier,
		Channel:    res.Channel,
	})
}

func (h *Handler) handleVerifyOTP(w http.ResponseWriter, r *http.Request, req deleteRequest) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if req.OTP == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "otp is required"))
		return
	}

	if err := h.account.Confirm(ctx, req.Identifier, req.OTP); err != nil {
		h.logError(ctx, "verify otp failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, verifyOTPResponse{
		Success: true,
		Message: "Your account and data have been deleted",
	})
}

func (h *Handler) logError(ctx context.Context, msg, requestID string, err error) {
	if dErrors.ToHTTPStatus(dErrors.GetCode(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err.Error())
		return
	}
	h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err.Error())
}
