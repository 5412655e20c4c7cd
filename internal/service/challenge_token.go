package service

import (
	"time"

	"storehub/internal/entity"

	"github.com/golang-jwt/jwt/v5"
)

// ChallengeTokenIssuer signs and parses the short-lived token handed to the
// client while a two-factor challenge is pending. It carries only the
// challenge id and the guard; all sensitive state stays server-side.
type ChallengeTokenIssuer interface {
	Issue(challengeID string, guard entity.Guard) (string, time.Duration, error)
	Parse(token string) (string, entity.Guard, error)
}

type ChallengeTokenIssuerJWT struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

type challengeClaims struct {
	ChallengeID string `json:"sub"`
	Guard       string `json:"guard"`
	Type        string `json:"typ"`
	jwt.RegisteredClaims
}

func (m ChallengeTokenIssuerJWT) Issue(challengeID string, guard entity.Guard) (string, time.Duration, error) {
	ttl := m.TTL
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	now := time.Now()
	claims := challengeClaims{
		ChallengeID: challengeID,
		Guard:       string(guard),
		Type:        "challenge",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Subject:   challengeID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.Secret)
	if err != nil {
		return "", 0, err
	}
	return signed, ttl, nil
}

func (m ChallengeTokenIssuerJWT) Parse(token string) (string, entity.Guard, error) {
	parsed, err := jwt.ParseWithClaims(token, &challengeClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.Secret, nil
	})
	if err != nil {
		return "", "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*challengeClaims)
	if !ok || !parsed.Valid || claims.Type != "challenge" {
		return "", "", ErrInvalidToken
	}
	guard, err := entity.ParseGuard(claims.Guard)
	if err != nil {
		return "", "", ErrInvalidToken
	}
	return claims.ChallengeID, guard, nil
}
