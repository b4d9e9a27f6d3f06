package main

import (
	"flag"
	"fmt"

	"data-validation/internal/config"
	"data-validation/internal/utils"
)

// Prints a bearer token for an API client, signed with JWT_SECRET.
func main() {
	client := flag.String("client", "", "client name recorded in the token")
	role := flag.String("role", "viewer", "admin, runner or viewer")
	flag.Parse()

	log := utils.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if *client == "" {
		log.Fatal("-client is required")
	}

	token, err := utils.GenerateAccessToken(*client, *role, cfg.JWTSecret, cfg.JWTAccessExpire)
	if err != nil {
		log.WithError(err).Fatal("Failed to sign token")
	}
	fmt.Println(token)
}
