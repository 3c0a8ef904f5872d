package utils

import (
	"fmt"
	"medichat-service/internal/pkg/constvars"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

func GenerateSessionID() string {
	return fmt.Sprintf("sess_%s", uuid.NewString())
}

func GeneratePackageID() string {
	return fmt.Sprintf("pkg_%s", uuid.NewString())
}

// GenerateReviewerJWT mints an HS256 token identifying a reviewing
// physician on the approval endpoints.
func GenerateReviewerJWT(reviewerID, secret string, jwtExpiryTimeInHour int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"reviewer_id": reviewerID,
		"exp":         time.Now().Add(time.Duration(jwtExpiryTimeInHour) * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
