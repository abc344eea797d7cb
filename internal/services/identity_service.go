package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/api/idtoken"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
)

// DefaultUser is the identity requests run as when sign-in is disabled.
var DefaultUser = models.User{
	Name:    "Scrum Master",
	Email:   "scrum.master@example.com",
	Picture: "https://i.pravatar.cc/150?u=scrum-master",
}

// TokenValidator verifies identity-provider ID tokens.
type TokenValidator interface {
	Validate(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

type accessClaims struct {
	jwt.RegisteredClaims
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

type identityServiceImpl struct {
	logger            zerolog.Logger
	validator         TokenValidator
	clientID          string
	jwtIssuer         string
	jwtSigningKey     []byte
	jwtAccessTokenTTL time.Duration
}

// NewIdentityService builds the sign-in service. An empty clientID or a nil
// validator disables sign-in.
func NewIdentityService(
	logger zerolog.Logger,
	validator TokenValidator,
	clientID string,
	jwtIssuer string,
	jwtSigningKey []byte,
	jwtAccessTokenTTL time.Duration,
) IdentityService {
	return &identityServiceImpl{
		logger:            logger,
		validator:         validator,
		clientID:          clientID,
		jwtIssuer:         jwtIssuer,
		jwtSigningKey:     jwtSigningKey,
		jwtAccessTokenTTL: jwtAccessTokenTTL,
	}
}

func (s *identityServiceImpl) Enabled() bool {
	return s.clientID != "" && s.validator != nil
}

func (s *identityServiceImpl) DefaultUser() models.User {
	return DefaultUser
}

func (s *identityServiceImpl) SignIn(ctx context.Context, credential string) (*SignInResult, error) {
	if !s.Enabled() {
		return nil, ErrIdentityDisabled
	}

	payload, err := s.validator.Validate(ctx, credential, s.clientID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to validate id token")
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	user := models.User{
		Name:    claimString(payload.Claims, "name"),
		Email:   claimString(payload.Claims, "email"),
		Picture: claimString(payload.Claims, "picture"),
	}
	if user.Email == "" {
		s.logger.Error().
			Str("subject", payload.Subject).
			Msg("id token has no email claim")
		return nil, ErrInvalidCredential
	}
	if user.Name == "" {
		user.Name = user.Email
	}
	s.logger.Debug().
		Str("email", user.Email).
		Msg("validated id token")

	token, expiresAt, err := s.generateAccessToken(user, payload.Subject)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate access token")
		return nil, err
	}

	s.logger.Info().
		Str("email", user.Email).
		Msg("signed in")
	return &SignInResult{
		User:                 user,
		AccessToken:          token,
		AccessTokenExpiresAt: expiresAt,
	}, nil
}

func (s *identityServiceImpl) ParseAccessToken(token string) (*models.User, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSigningKey, nil
		},
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token is expired", ErrInvalidAccessToken)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidAccessToken, err)
	}

	return &models.User{
		Name:    claims.Name,
		Email:   claims.Email,
		Picture: claims.Picture,
	}, nil
}

func (s *identityServiceImpl) generateAccessToken(user models.User, subject string) (string, time.Time, error) {
	tokenUUID, err := uuid.NewV7()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token uuid: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtAccessTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenUUID.String(),
			Issuer:    s.jwtIssuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Name:    user.Name,
		Email:   user.Email,
		Picture: user.Picture,
	})

	signed, err := token.SignedString(s.jwtSigningKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func claimString(claims map[string]any, key string) string {
	v, _ := claims[key].(string)
	return v
}
