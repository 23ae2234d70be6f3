package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := NewJWTService("test-secret", time.Hour)

	token, err := service.GenerateSessionToken("google-sub-1", "joe@g.ucla.edu", "Joe Bruin", "https://example.com/p.png")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "google-sub-1", claims.Subject)
	assert.Equal(t, "joe@g.ucla.edu", claims.Email)
	assert.Equal(t, "Joe Bruin", claims.Name)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_ValidateRejections(t *testing.T) {
	service := NewJWTService("test-secret", time.Hour)

	tests := []struct {
		name  string
		token func() string
	}{
		{
			name:  "malformed token",
			token: func() string { return "garbage" },
		},
		{
			name: "wrong secret",
			token: func() string {
				other := NewJWTService("other-secret", time.Hour)
				token, _ := other.GenerateSessionToken("google-sub-1", "joe@g.ucla.edu", "", "")
				return token
			},
		},
		{
			name: "expired token",
			token: func() string {
				expired := NewJWTService("test-secret", -time.Minute)
				token, _ := expired.GenerateSessionToken("google-sub-1", "joe@g.ucla.edu", "", "")
				return token
			},
		},
		{
			name: "unsigned token",
			token: func() string {
				claims := &Claims{
					Email: "joe@g.ucla.edu",
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   "google-sub-1",
						ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
					},
				}
				token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
				signed, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
				return signed
			},
		},
		{
			name: "missing subject",
			token: func() string {
				claims := &Claims{
					Email: "joe@g.ucla.edu",
					RegisteredClaims: jwt.RegisteredClaims{
						ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
					},
				}
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
				signed, _ := token.SignedString([]byte("test-secret"))
				return signed
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token())
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
