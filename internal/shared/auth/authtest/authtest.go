// Package authtest issues RS256 identity tokens and serves the matching public key, standing in
// for the identity authority in tests and local development.
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PublicKeyPath is the path served by Authority.
const PublicKeyPath = "/api/v1/auth/public-key"

// KeyPair is an RSA signing key with its PEM-encoded public half.
type KeyPair struct {
	Private   *rsa.PrivateKey
	PublicPEM string
}

// GenerateKeyPair creates a fresh 2048-bit RSA key pair.
func GenerateKeyPair() (KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return KeyPair{}, fmt.Errorf("generate rsa key: %w", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return KeyPair{}, fmt.Errorf("marshal public key: %w", err)
	}
	block := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return KeyPair{Private: priv, PublicPEM: string(block)}, nil
}

// Sign signs arbitrary claims with RS256.
func (k KeyPair) Sign(claims jwt.MapClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(k.Private)
}

// Token signs the standard {id, exp, type} claim set.
func (k KeyPair) Token(userID int64, tokenType string, ttl time.Duration) (string, error) {
	return k.Sign(jwt.MapClaims{
		"id":   userID,
		"exp":  time.Now().Add(ttl).Unix(),
		"type": tokenType,
	})
}

// AccessToken signs an access token valid for ttl.
func (k KeyPair) AccessToken(userID int64, ttl time.Duration) (string, error) {
	return k.Token(userID, "access", ttl)
}

// Authority is a fake identity authority serving a public key.
type Authority struct {
	Server *httptest.Server
	calls  atomic.Int64
	status atomic.Int64
}

// NewAuthority starts an httptest server answering GET PublicKeyPath with publicPEM.
func NewAuthority(publicPEM string) *Authority {
	a := &Authority{}
	a.status.Store(http.StatusOK)
	mux := http.NewServeMux()
	mux.HandleFunc(PublicKeyPath, func(w http.ResponseWriter, r *http.Request) {
		a.calls.Add(1)
		status := int(a.status.Load())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"detail":"unavailable"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"public_key": publicPEM})
	})
	a.Server = httptest.NewServer(mux)
	return a
}

// URL is the base URL of the authority.
func (a *Authority) URL() string { return a.Server.URL }

// KeyURL is the full public key endpoint.
func (a *Authority) KeyURL() string { return a.Server.URL + PublicKeyPath }

// Calls reports how many key requests were served.
func (a *Authority) Calls() int64 { return a.calls.Load() }

// FailWith makes subsequent key requests answer with status.
func (a *Authority) FailWith(status int) { a.status.Store(int64(status)) }

// Close shuts the server down.
func (a *Authority) Close() { a.Server.Close() }
