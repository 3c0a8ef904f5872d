package middlewares

import (
	"context"
	"fmt"
	"medichat-service/internal/app/services/shared/jwtmanager"
	"medichat-service/internal/pkg/constvars"
	"medichat-service/internal/pkg/exceptions"
	"medichat-service/internal/pkg/utils"
	"net/http"
	"strings"
)

// ReviewerAuth guards the doctor-facing approval endpoints. It expects
// a bearer token minted for a reviewing physician and injects the
// reviewer identity into the request context.
func (m *Middlewares) ReviewerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(constvars.HeaderAuthorization)
		if header == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(fmt.Errorf("authorization header absent")))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" || token == header {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(fmt.Errorf("authorization header is not a bearer token")))
			return
		}

		verified, err := m.JWTManager.VerifyToken(r.Context(), &jwtmanager.VerifyTokenInput{Token: token})
		if err != nil || !verified.Valid {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(err))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_REVIEWER_ID_KEY, verified.ReviewerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
