package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const TokenTypeReportDownload = "report_download"

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	AnalysisID uuid.UUID `json:"analysis_id"`
	TokenType  string    `json:"token_type"`

	jwtlib.RegisteredClaims
}

// Service signs and checks short-lived report download links.
type Service interface {
	GenerateDownloadToken(analysisID uuid.UUID) (string, time.Time, error)
	ValidateDownloadToken(tokenString string, analysisID uuid.UUID) (Claims, error)
}

type HMACService struct {
	secret    []byte
	expiresIn time.Duration

	now func() time.Time
}

func NewHMACService(secret string, expiresIn time.Duration) *HMACService {
	return &HMACService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

func (s *HMACService) GenerateDownloadToken(analysisID uuid.UUID) (string, time.Time, error) {
	if len(s.secret) == 0 || s.expiresIn <= 0 || analysisID == uuid.Nil {
		return "", time.Time{}, ErrTokenInvalid
	}

	now := s.now().UTC()
	exp := now.Add(s.expiresIn)

	c := Claims{
		AnalysisID: analysisID,
		TokenType:  TokenTypeReportDownload,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(exp),
			Subject:   analysisID.String(),
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ValidateDownloadToken accepts only tokens minted for analysisID.
func (s *HMACService) ValidateDownloadToken(tokenString string, analysisID uuid.UUID) (Claims, error) {
	if tokenString == "" || len(s.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}

	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(s.now),
		jwtlib.WithExpirationRequired(),
	)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}

	if c.TokenType != TokenTypeReportDownload || c.AnalysisID != analysisID {
		return Claims{}, ErrTokenInvalid
	}

	return c, nil
}
