package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json/v2"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/vantagepoint/vantage-admin/internal/id"
)

const (
	tokenIssuer   = "vantage-devserver"
	tokenAudience = "vantage-admin"

	refreshTokenSize = 32
)

// ErrInvalidToken is returned for access tokens that fail decryption or any
// claim rule, including expiry.
var ErrInvalidToken = errors.New("invalid access token")

// Pair is an issued access token with its opaque refresh companion.
type Pair struct {
	TokenID          string
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenService issues PASETO v4.local access tokens and random refresh tokens.
type TokenService struct {
	key        paseto.V4SymmetricKey
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService creates a token service from a 32-byte symmetric key.
func NewTokenService(key []byte, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("token key must be %d bytes, got %d", keyLength, len(key))
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	k, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("create symmetric key: %w", err)
	}

	return &TokenService{
		key:        k,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// Issue creates a new token pair for the account with email.
func (s *TokenService) Issue(email string) (*Pair, error) {
	now := s.now()

	jti, err := id.Generate(id.Token)
	if err != nil {
		return nil, fmt.Errorf("generate token id: %w", err)
	}
	access := s.accessToken(email, jti, now)
	refresh, err := GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	return &Pair{
		TokenID:          jti,
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  now.Add(s.accessTTL),
		RefreshExpiresAt: now.Add(s.refreshTTL),
	}, nil
}

func (s *TokenService) accessToken(email, jti string, now time.Time) string {
	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(email)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.accessTTL))
	token.SetJti(jti)

	//nolint:errcheck // Set only fails for values that cannot be marshaled
	_ = token.Set("email", email)

	return token.V4Encrypt(s.key, nil)
}

// Verify decrypts an access token and checks issuer, audience and validity
// window.
func (s *TokenService) Verify(token string) (*AccessClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(s.now()))

	parsed, err := parser.ParseV4Local(s.key, token, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var claims AccessClaims
	if err := json.Unmarshal(parsed.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	return &claims, nil
}

// AccessTTL returns the access token lifetime.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL returns the refresh token lifetime.
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// GenerateRefreshToken returns 256 random bits, base64url encoded.
// Refresh tokens are opaque; the server looks them up by hash.
func GenerateRefreshToken() (string, error) {
	b := make([]byte, refreshTokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashRefreshToken returns the lookup key stored for a refresh token.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
