package main

import (
	"flag"
	"fmt"
	"medichat-service/internal/app/config"
	"medichat-service/internal/pkg/utils"
	"os"
)

// Mints a reviewer bearer token for the approval endpoints.
//
//	go run ./cmd/token -reviewer dr-somchai
func main() {
	reviewerID := flag.String("reviewer", "", "reviewer identifier to embed in the token")
	flag.Parse()

	if *reviewerID == "" {
		fmt.Fprintln(os.Stderr, "usage: token -reviewer <reviewer-id>")
		os.Exit(1)
	}

	internalConfig := config.NewInternalConfig()

	token, err := utils.GenerateReviewerJWT(*reviewerID, internalConfig.JWT.Secret, internalConfig.JWT.ExpTimeInHour)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
