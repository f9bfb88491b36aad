package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clinio/clinio-api/internal/model"
)

// Claims is the identity recovered from a verified bearer token.
type Claims struct {
	SubjectID int64
	Role      model.Role
	IssuedAt  time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Role model.Role `json:"role"`
}

// JWTService mints and validates signed HS256 tokens. The signing key is
// process-wide configuration, loaded once and never mutated.
type JWTService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTService creates a token service. A zero ttl disables expiry
// enforcement; tokens then carry no exp claim.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{secret: []byte(secret), ttl: ttl}
}

// Issue mints a token embedding subject id, role and issue time.
func (s *JWTService) Issue(accountID int64, role model.Role) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatInt(accountID, 10),
			IssuedAt: jwt.NewNumericDate(now),
		},
		Role: role,
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and structural validity and returns the embedded
// claims. Expiry is rejected by jwt/v5 whenever an exp claim is present.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid subject in token: %w", err)
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("invalid role in token")
	}

	out := &Claims{
		SubjectID: subjectID,
		Role:      claims.Role,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
