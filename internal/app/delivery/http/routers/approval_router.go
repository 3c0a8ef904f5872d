package routers

import (
	"medichat-service/internal/app/delivery/http/controllers"
	"medichat-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

// Every approval route requires a reviewer bearer token.
func attachApprovalRoutes(router chi.Router, middlewares *middlewares.Middlewares, approvalController *controllers.ApprovalController) {
	router.With(middlewares.ReviewerAuth).Get("/pending", approvalController.ListPending)
	router.With(middlewares.ReviewerAuth).Post("/{package_id}/claim", approvalController.Claim)
	router.With(middlewares.ReviewerAuth).Post("/{package_id}/decision", approvalController.Decide)
}
