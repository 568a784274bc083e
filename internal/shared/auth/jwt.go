package auth

import (
	"crypto"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeAccess is the only token type accepted on protected routes.
const TokenTypeAccess = "access"

var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrUnsupportedAlgorithm = errors.New("unsupported jwt algorithm")
)

// requiredClaims is the exact claim set issued by the identity authority.
var requiredClaims = []string{"id", "exp", "type"}

// Claims is the verified payload of an identity token.
type Claims struct {
	ID   int64
	Exp  time.Time
	Type string
}

// IsAccess reports whether the token may be used to call protected routes.
func (c Claims) IsAccess() bool {
	return c.Type == TokenTypeAccess
}

// Verifier checks token signatures with a public key for one configured algorithm.
type Verifier struct {
	method jwt.SigningMethod
	parser *jwt.Parser
}

// NewVerifier builds a Verifier for an asymmetric algorithm such as RS256, ES256 or EdDSA.
func NewVerifier(algorithm string) (*Verifier, error) {
	alg := strings.TrimSpace(algorithm)
	method := jwt.GetSigningMethod(alg)
	if method == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); ok {
		return nil, fmt.Errorf("%w: %q is symmetric", ErrUnsupportedAlgorithm, alg)
	}
	if method == jwt.SigningMethodNone {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
	return &Verifier{
		method: method,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{method.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithJSONNumber(),
		),
	}, nil
}

// Algorithm returns the signing algorithm tokens must use.
func (v *Verifier) Algorithm() string {
	return v.method.Alg()
}

// Verify validates signature, expiry and claim set. Every failure wraps ErrInvalidToken.
func (v *Verifier) Verify(token, publicKeyPEM string) (Claims, error) {
	key, err := v.parsePublicKey([]byte(publicKeyPEM))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: public key: %v", ErrInvalidToken, err)
	}

	parsed, err := v.parser.Parse(token, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claimsFromMap(mc)
}

func (v *Verifier) parsePublicKey(pem []byte) (crypto.PublicKey, error) {
	switch v.method.(type) {
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		return jwt.ParseRSAPublicKeyFromPEM(pem)
	case *jwt.SigningMethodECDSA:
		return jwt.ParseECPublicKeyFromPEM(pem)
	case *jwt.SigningMethodEd25519:
		return jwt.ParseEdPublicKeyFromPEM(pem)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, v.method.Alg())
	}
}

func claimsFromMap(mc jwt.MapClaims) (Claims, error) {
	if len(mc) != len(requiredClaims) {
		return Claims{}, fmt.Errorf("%w: unexpected claim set", ErrInvalidToken)
	}
	for _, name := range requiredClaims {
		if _, ok := mc[name]; !ok {
			return Claims{}, fmt.Errorf("%w: missing claim %q", ErrInvalidToken, name)
		}
	}

	num, ok := mc["id"].(json.Number)
	if !ok {
		return Claims{}, fmt.Errorf("%w: id is not a number", ErrInvalidToken)
	}
	id, err := num.Int64()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: id is not an integer", ErrInvalidToken)
	}
	typ, ok := mc["type"].(string)
	if !ok {
		return Claims{}, fmt.Errorf("%w: type is not a string", ErrInvalidToken)
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, fmt.Errorf("%w: exp", ErrInvalidToken)
	}

	return Claims{ID: id, Exp: exp.Time.UTC(), Type: typ}, nil
}
