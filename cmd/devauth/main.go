package main

// Local identity authority for development:
//   go run ./cmd/devauth -addr :8000 -user 1
// It serves the public key at /api/v1/auth/public-key and prints a bearer token.

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"resume-service/internal/shared/auth/authtest"
	"resume-service/internal/shared/telemetry"
)

func main() {
	addr := flag.String("addr", ":8000", "listen address")
	userID := flag.Int64("user", 1, "user id embedded in the printed token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	tokenType := flag.String("type", "access", "token type claim")
	flag.Parse()

	keys, err := authtest.GenerateKeyPair()
	if err != nil {
		telemetry.Error("devauth.keygen_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	token, err := keys.Token(*userID, *tokenType, *ttl)
	if err != nil {
		telemetry.Error("devauth.sign_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	fmt.Println(token)

	mux := http.NewServeMux()
	mux.HandleFunc(authtest.PublicKeyPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"public_key": keys.PublicPEM})
	})

	telemetry.Info("devauth.listening", map[string]any{"addr": *addr, "user_id": *userID})
	srv := &http.Server{Addr: *addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		telemetry.Error("devauth.server_error", map[string]any{"error": err})
		os.Exit(1)
	}
}
