package handler

import (
	"log/slog"
	"net/http"
	"time"

	"loaner/internal/delivery/http/middleware"
	"loaner/internal/delivery/http/response"
	"loaner/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// LoanHandlerParams holds dependencies for LoanHandler, injected by Fx.
type LoanHandlerParams struct {
	fx.In

	LoanUC usecase.LoanUsecase
	Logger *slog.Logger
}

// LoanHandler holds dependencies for loan-related handlers
type LoanHandler struct {
	loanUC usecase.LoanUsecase
	logger *slog.Logger
}

// NewLoanHandler is the constructor for LoanHandler
func NewLoanHandler(params LoanHandlerParams) *LoanHandler {
	return &LoanHandler{
		loanUC: params.LoanUC,
		logger: params.Logger,
	}
}

// CreateLoanRequest represents the request body for creating a loan.
// Field-level validation is the domain factory's job, so only the timestamp
// needs transport-side parsing.
type CreateLoanRequest struct {
	ID                string `json:"id"`
	DeviceID          string `json:"deviceId"`
	UserID            string `json:"userId"`
	LoanedAt          string `json:"loanedAt,omitempty"`
	LoanDurationHours *int   `json:"loanDurationHours,omitempty"`
}

// EditLoanRequest represents the request body for editing a loan
type EditLoanRequest struct {
	LoanID string `json:"loanId" validate:"required"`
	Action string `json:"action" validate:"required"`
}

// CreateLoan handles loan creation
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "Request body is required")
	}

	params := usecase.CreateLoanParams{
		ID:                req.ID,
		DeviceID:          req.DeviceID,
		UserID:            req.UserID,
		LoanDurationHours: req.LoanDurationHours,
	}
	if req.LoanedAt != "" {
		loanedAt, err := time.Parse(time.RFC3339, req.LoanedAt)
		if err != nil {
			return response.BadRequest(c, "loanedAt must be an ISO-8601 timestamp.")
		}
		params.LoanedAt = &loanedAt
	}

	loan, err := h.loanUC.CreateLoan(c.Request().Context(), middleware.AuthContextFrom(c), params)
	if err != nil {
		return response.UsecaseError(c, err)
	}

	return response.JSON(c, http.StatusCreated, loan)
}

// EditLoan handles domain-safe loan mutations such as returning a loan
func (h *LoanHandler) EditLoan(c echo.Context) error {
	var req EditLoanRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "Request body is required")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "loanId and action are required")
	}

	loan, err := h.loanUC.EditLoan(c.Request().Context(), middleware.AuthContextFrom(c), usecase.EditLoanCommand{
		LoanID: req.LoanID,
		Action: req.Action,
	})
	if err != nil {
		return response.UsecaseError(c, err)
	}

	return response.JSON(c, http.StatusOK, loan)
}

// ListLoans handles listing all loans, or one user's active loans
func (h *LoanHandler) ListLoans(c echo.Context) error {
	result, err := h.loanUC.ListLoans(c.Request().Context(), middleware.AuthContextFrom(c), usecase.ListLoansCommand{
		UserID: c.QueryParam("userId"),
	})
	if err != nil {
		return response.UsecaseError(c, err)
	}

	return response.JSON(c, http.StatusOK, result)
}
