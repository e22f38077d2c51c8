package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/utafrali/EcommerceGo/wishlist/pkg/errors"
)

// ErrInvalidShareToken is returned for any share token that does not verify.
// It matches apperrors.ErrNotFound under errors.Is.
var ErrInvalidShareToken = fmt.Errorf("invalid share token: %w", apperrors.ErrNotFound)

// ShareClaims is the payload of a share token. It carries no expiry, issuer
// or audience: a token stays valid until the signing secret is rotated.
type ShareClaims struct {
	CustomerID string `json:"customer_id"`
}

// GetExpirationTime implements jwt.Claims.
func (ShareClaims) GetExpirationTime() (*jwt.NumericDate, error) { return nil, nil }

// GetIssuedAt implements jwt.Claims.
func (ShareClaims) GetIssuedAt() (*jwt.NumericDate, error) { return nil, nil }

// GetNotBefore implements jwt.Claims.
func (ShareClaims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

// GetIssuer implements jwt.Claims.
func (ShareClaims) GetIssuer() (string, error) { return "", nil }

// GetSubject implements jwt.Claims.
func (ShareClaims) GetSubject() (string, error) { return "", nil }

// GetAudience implements jwt.Claims.
func (ShareClaims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

// ShareTokenCodec issues and verifies wishlist share tokens: HS256-signed
// JWTs whose only claim is the owner's customer id. Tokens are deterministic
// for a given secret and customer id.
type ShareTokenCodec struct {
	secret []byte
	parser *jwt.Parser
}

// NewShareTokenCodec returns a codec signing with secret. An empty secret is
// accepted here; config loading refuses one outside development.
func NewShareTokenCodec(secret string) *ShareTokenCodec {
	return &ShareTokenCodec{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithStrictDecoding(),
		),
	}
}

// Issue returns a share token for customerID.
func (c *ShareTokenCodec) Issue(customerID string) (string, error) {
	if customerID == "" {
		return "", apperrors.InvalidInput("customer id is required")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ShareClaims{CustomerID: customerID})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign share token: %w", err)
	}
	return signed, nil
}

// Verify returns the customer id a share token was issued for. Malformed
// tokens, bad signatures and payloads without a customer id all fail with
// ErrInvalidShareToken.
func (c *ShareTokenCodec) Verify(token string) (string, error) {
	var claims ShareClaims
	parsed, err := c.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		if len(c.secret) == 0 {
			return nil, errors.New("share token secret not configured")
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidShareToken
	}
	if claims.CustomerID == "" {
		return "", ErrInvalidShareToken
	}
	return claims.CustomerID, nil
}
