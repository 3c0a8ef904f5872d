package routers

import (
	"medichat-service/internal/app/delivery/http/controllers"
	"medichat-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachConsultationRoutes(router chi.Router, middlewares *middlewares.Middlewares, consultationController *controllers.ConsultationController) {
	router.Post("/chat", consultationController.Chat)
	router.Get("/sessions/{session_id}", consultationController.GetSession)
	router.Delete("/sessions/{session_id}", consultationController.CloseSession)
}
