// Command token mints a bearer token for local testing of the chat API.
package main

import (
	"fmt"
	"os"
	"time"

	"meetup/backend/internal/config"
	"meetup/backend/pkg/jwt"

	"github.com/spf13/pflag"
)

func main() {
	userID := pflag.UintP("user", "u", 0, "user ID to put in the token subject")
	ttl := pflag.Duration("ttl", 24*time.Hour, "token lifetime")
	dir := pflag.String("config-dir", ".", "directory holding the .env file")
	pflag.Parse()

	if *userID == 0 {
		fmt.Fprintln(os.Stderr, "--user is required")
		pflag.Usage()
		os.Exit(2)
	}

	cfg := config.LoadConfig(*dir)
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET must be set")
		os.Exit(1)
	}

	token, err := jwt.GenerateToken(*userID, cfg.JWTSecret, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
