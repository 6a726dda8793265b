// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"loaner/internal/delivery/http/middleware"
	"loaner/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	LoanHandler    *handler.LoanHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	loanHandler    *handler.LoanHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		loanHandler:    params.LoanHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Probe endpoints stay outside the auth middleware.
	e.GET("/health", handler.HealthCheck)
	e.GET("/ready", handler.ReadyCheck)

	// Loan routes resolve the caller's credential up front; the use cases
	// decide whether an unauthenticated caller gets through.
	loanGroup := e.Group("/loans")
	loanGroup.Use(r.authMiddleware.ResolveAuthContext)
	{
		loanGroup.POST("", r.loanHandler.CreateLoan)
		loanGroup.POST("/edit", r.loanHandler.EditLoan)
		loanGroup.GET("", r.loanHandler.ListLoans)
	}
}
