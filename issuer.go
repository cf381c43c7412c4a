package gourdianauth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuthIssuer defines the interface for token issuance and refresh.
//
// Methods:
//   - IssueToken: Signs a new access token and mints a paired refresh token
//   - RefreshToken: Exchanges an expired access token plus a live refresh
//     token for a fresh pair
//   - RevokeRefreshToken: Invalidates a refresh token server-side
type AuthIssuer interface {
	IssueToken(ctx context.Context, claims []Claim) (*TokenResponse, error)
	RefreshToken(ctx context.Context, accessToken, refreshToken string) (*TokenResponse, error)
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
}

// TokenResponse represents the response after issuing a token pair.
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	SubjectID    string    `json:"subject_id"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// tokenIssuer is the concrete implementation of AuthIssuer.
type tokenIssuer struct {
	config     GourdianAuthConfig
	repository RefreshTokenRepository
}

// NewAuthIssuer creates a new issuer from the given configuration. The
// repository may be nil, in which case no refresh tokens are minted and
// RefreshToken always fails.
func NewAuthIssuer(config GourdianAuthConfig, repository RefreshTokenRepository) (AuthIssuer, error) {
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &tokenIssuer{
		config:     config,
		repository: repository,
	}, nil
}

// IssueToken signs an access token carrying the supplied claims plus a fresh
// jti, and mints an opaque refresh token tracked by the repository. The claim
// set must yield a subject identifier.
func (issuer *tokenIssuer) IssueToken(ctx context.Context, claims []Claim) (*TokenResponse, error) {
	subjectID, err := Claims(claims).SubjectID()
	if err != nil {
		return nil, err
	}

	tokenID, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token ID: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(issuer.config.AccessTokenTTL)

	issued := append(stripReservedClaims(claims), Claim{Type: ClaimTypeTokenID, Value: tokenID.String()})
	accessToken, err := EncodeToken(
		[]byte(issuer.config.SigningSecret),
		issuer.config.Issuer,
		issuer.config.Audience,
		issued,
		&expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	response := &TokenResponse{
		AccessToken: accessToken,
		SubjectID:   subjectID,
		IssuedAt:    now,
		ExpiresAt:   expiresAt,
	}

	if issuer.repository != nil {
		refreshToken, err := GenerateOpaqueSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate refresh token: %w", err)
		}
		if err := issuer.repository.SaveRefreshToken(ctx, subjectID, refreshToken, issuer.config.RefreshTokenTTL); err != nil {
			return nil, fmt.Errorf("failed to store refresh token: %w", err)
		}
		response.RefreshToken = refreshToken
	}

	return response, nil
}

// RefreshToken exchanges an access token (expired or not) plus a live opaque
// refresh token for a fresh pair. The access token's signature is verified
// but its expiration deliberately is not; identity is recovered from its
// claims and matched against the repository entry for the refresh token. The
// used refresh token is rotated out before the replacement pair is minted.
func (issuer *tokenIssuer) RefreshToken(ctx context.Context, accessToken, refreshToken string) (*TokenResponse, error) {
	if issuer.repository == nil {
		return nil, fmt.Errorf("refresh not supported: no refresh token repository configured")
	}

	claims, err := ValidateToken(accessToken, []byte(issuer.config.SigningSecret))
	if err != nil {
		return nil, err
	}

	subjectID, err := claims.SubjectID()
	if err != nil {
		return nil, err
	}

	storedSubject, err := issuer.repository.LookupRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if storedSubject != subjectID {
		// The refresh token exists but was issued to someone else
		return nil, ErrRefreshTokenNotFound
	}

	// The presented refresh token is single-use: rotate it out before the
	// replacement exists, so a failed rotation never leaves two live tokens.
	if err := issuer.repository.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return issuer.IssueToken(ctx, claims)
}

// RevokeRefreshToken invalidates a refresh token server-side.
func (issuer *tokenIssuer) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	if issuer.repository == nil {
		return fmt.Errorf("refresh not supported: no refresh token repository configured")
	}
	return issuer.repository.RevokeRefreshToken(ctx, refreshToken)
}

// stripReservedClaims drops claims the codec or issuer writes itself so a
// re-issued token does not carry duplicates recovered from the old payload.
func stripReservedClaims(claims []Claim) []Claim {
	kept := make([]Claim, 0, len(claims))
	for _, claim := range claims {
		switch claim.Type {
		case ClaimTypeIssuer, ClaimTypeAudience, ClaimTypeExpires, ClaimTypeIssuedAt, ClaimTypeTokenID:
			continue
		}
		kept = append(kept, claim)
	}
	return kept
}
