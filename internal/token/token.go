// Package token issues and verifies the signed access and refresh tokens handed
// out after authentication. Tokens are stateless HS256 JWTs carrying only the
// user id plus the issued-at and expiry claims.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/abduss/accounts/internal/config"
	"github.com/abduss/accounts/internal/metrics"
	"github.com/golang-jwt/jwt/v5"
)

// Kind selects which secret and lifetime a token is signed with.
type Kind int

const (
	AccessToken Kind = iota
	RefreshToken
)

func (k Kind) String() string {
	switch k {
	case AccessToken:
		return "access"
	case RefreshToken:
		return "refresh"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	// ErrInvalidToken covers bad signatures, wrong algorithms, expiry and malformed input.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidOptions is returned by NewIssuer for unusable secrets or lifetimes.
	ErrInvalidOptions = errors.New("invalid token options")
)

// Options is the per-kind signing configuration.
type Options struct {
	Secret    string
	ExpiresIn time.Duration
}

// Claims is the token payload.
type Claims struct {
	UserID string `json:"userID"`
	jwt.RegisteredClaims
}

// Pair is what a successful sign-in or refresh returns.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Issuer signs and verifies tokens of both kinds.
type Issuer struct {
	access  Options
	refresh Options
	nowFunc func() time.Time
}

// Option customizes an Issuer.
type Option func(*Issuer)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

// NewIssuer resolves both token kinds from cfg and refuses to start with a missing,
// short or shared secret, or a non-positive lifetime.
func NewIssuer(cfg config.AuthConfig, opts ...Option) (*Issuer, error) {
	access := Options{Secret: cfg.AccessTokenSecret, ExpiresIn: cfg.AccessTokenTTL()}
	refresh := Options{Secret: cfg.RefreshTokenSecret, ExpiresIn: cfg.RefreshTokenTTL()}

	if err := validateOptions(AccessToken, access); err != nil {
		return nil, err
	}
	if err := validateOptions(RefreshToken, refresh); err != nil {
		return nil, err
	}
	if access.Secret == refresh.Secret {
		return nil, fmt.Errorf("%w: access and refresh secrets must differ", ErrInvalidOptions)
	}

	issuer := &Issuer{
		access:  access,
		refresh: refresh,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(issuer)
	}
	return issuer, nil
}

func validateOptions(kind Kind, o Options) error {
	if len(o.Secret) < config.MinSecretLength {
		return fmt.Errorf("%w: %s secret must be at least %d characters", ErrInvalidOptions, kind, config.MinSecretLength)
	}
	if o.ExpiresIn <= 0 {
		return fmt.Errorf("%w: %s lifetime must be positive", ErrInvalidOptions, kind)
	}
	return nil
}

func (i *Issuer) options(kind Kind) (Options, error) {
	switch kind {
	case AccessToken:
		return i.access, nil
	case RefreshToken:
		return i.refresh, nil
	default:
		return Options{}, fmt.Errorf("unknown token kind %s", kind)
	}
}

// Issue signs a token of the given kind for userID.
func (i *Issuer) Issue(kind Kind, userID string) (string, error) {
	opts, err := i.options(kind)
	if err != nil {
		return "", err
	}

	now := i.nowFunc()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(opts.ExpiresIn)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(opts.Secret))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}

	metrics.ObserveTokenIssued(kind.String())
	return signed, nil
}

// IssuePair signs an access and a refresh token for userID.
func (i *Issuer) IssuePair(userID string) (Pair, error) {
	access, err := i.Issue(AccessToken, userID)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := i.Issue(RefreshToken, userID)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify checks tokenString against the secret of kind and returns its claims.
func (i *Issuer) Verify(kind Kind, tokenString string) (Claims, error) {
	opts, err := i.options(kind)
	if err != nil {
		return Claims{}, err
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.nowFunc),
	)

	var claims Claims
	parsed, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(opts.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.UserID == "" {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
