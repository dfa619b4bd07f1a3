package security

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	Issuer     = "villagewars"
	DefaultTTL = 7 * 24 * time.Hour
	leeway     = 30 * time.Second
)

var ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")

// Claims 携带发令玩家 id。签发在外部账号系统，这里只校验；Award 供联调与测试。
type Claims struct {
	PlayerID int64 `json:"pid"`
	jwt.RegisteredClaims
}

func signingKey() ([]byte, error) {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s), nil
	}
	return nil, ErrJWTSecretMissing
}

func Award(playerID int64) (string, error) {
	return AwardFor(playerID, DefaultTTL)
}

// AwardFor 按指定有效期签发，ttl <= 0 时用 DefaultTTL。
func AwardFor(playerID int64, ttl time.Duration) (string, error) {
	key, err := signingKey()
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	claims := Claims{
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   strconv.FormatInt(playerID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ParseToken 只接受 HS256、本服签发、未过期且 pid 为正的 token。
func ParseToken(raw string) (*Claims, error) {
	key, err := signingKey()
	if err != nil {
		return nil, err
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	)
	claims := &Claims{}
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return key, nil }); err != nil {
		return nil, err
	}
	if claims.PlayerID <= 0 {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
