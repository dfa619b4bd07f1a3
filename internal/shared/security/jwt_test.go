package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAward_ParseToken_RoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")

	token, err := Award(42)
	if err != nil {
		t.Fatalf("award err=%v", err)
	}
	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse err=%v", err)
	}
	if claims.PlayerID != 42 || claims.Subject != "42" || claims.Issuer != Issuer {
		t.Fatalf("claims 不符: %+v", claims)
	}
}

func TestParseToken_密钥不一致应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := Award(1)
	if err != nil {
		t.Fatalf("award err=%v", err)
	}
	t.Setenv("JWT_SECRET", "secret-b")
	if _, err := ParseToken(token); err == nil {
		t.Fatalf("期望签名校验失败")
	}
}

func TestAward_缺少密钥(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Award(1); !errors.Is(err, ErrJWTSecretMissing) {
		t.Fatalf("期望 ErrJWTSecretMissing, got=%v", err)
	}
}

func TestParseToken_过期与外部签发均拒绝(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")

	past := time.Now().Add(-time.Hour)
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		PlayerID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(past),
		},
	})
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		PlayerID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	noPID := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	for name, tok := range map[string]*jwt.Token{"过期": expired, "外部签发": foreign, "缺少pid": noPID} {
		raw, err := tok.SignedString([]byte("test-secret-123"))
		if err != nil {
			t.Fatalf("%s sign err=%v", name, err)
		}
		if _, err := ParseToken(raw); err == nil {
			t.Fatalf("%s 应被拒绝", name)
		}
	}
}
