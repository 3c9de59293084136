package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
)

// Audience carried by access tokens of signed-in users.
const Audience = "authenticated"

// Claims is the subset of access token claims the dashboard relies on.
type Claims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// Verifier checks an access token before the session mirror is trusted.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*Claims, error)
}

// SecretVerifier validates HS256 tokens signed with the project's JWT secret.
type SecretVerifier struct {
	secret []byte
}

func NewSecretVerifier(secret string) *SecretVerifier {
	return &SecretVerifier{secret: []byte(secret)}
}

func (v *SecretVerifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithAudience(Audience), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("token has no subject")
	}
	out := &Claims{Subject: sub}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	out.Email, _ = mc["email"].(string)
	return out, nil
}

// JWKSVerifier validates asymmetrically signed tokens against the project's
// published key set (`/auth/v1/.well-known/jwks.json`).
type JWKSVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewJWKSVerifier builds a verifier for tokens issued by `<baseURL>/auth/v1`.
func NewJWKSVerifier(ctx context.Context, baseURL string) *JWKSVerifier {
	issuer := baseURL + "/auth/v1"
	keys := oidc.NewRemoteKeySet(ctx, issuer+"/.well-known/jwks.json")
	return &JWKSVerifier{verifier: oidc.NewVerifier(issuer, keys, &oidc.Config{
		ClientID:             Audience,
		SupportedSigningAlgs: []string{oidc.RS256, oidc.ES256},
	})}
}

func (v *JWKSVerifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	idt, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	var extra struct {
		Email string `json:"email"`
	}
	if err := idt.Claims(&extra); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}
	return &Claims{Subject: idt.Subject, Email: extra.Email, ExpiresAt: idt.Expiry}, nil
}

// RemoteVerifier asks the auth service itself; used when neither a secret nor
// JWKS verification is configured.
type RemoteVerifier struct {
	client *Client
}

func NewRemoteVerifier(c *Client) *RemoteVerifier { return &RemoteVerifier{client: c} }

func (v *RemoteVerifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	u, err := v.client.GetUser(ctx, raw)
	if err != nil {
		return nil, err
	}
	return &Claims{Subject: u.ID, Email: u.Email}, nil
}
