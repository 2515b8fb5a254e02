package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/contacthub/internal/auth"
	"github.com/geocoder89/contacthub/internal/domain/user"
	"github.com/golang-jwt/jwt/v5"
)

func testUser() user.User {
	return user.User{
		ID:       42,
		Email:    "alice@x.com",
		FullName: "Alice Smith",
	}
}

func TestIssueAndVerify(t *testing.T) {
	m := auth.NewManager("test-secret", 7*24*time.Hour)

	token, err := m.Issue(testUser())

	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if token == "" {
		t.Fatalf("Issue returned an empty token")
	}

	claims, err := m.Verify(token)

	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if claims.UserID != 42 {
		t.Fatalf("got user id %d, want 42", claims.UserID)
	}

	if claims.Email != "alice@x.com" {
		t.Fatalf("got email %q, want alice@x.com", claims.Email)
	}

	if claims.Name != "Alice Smith" {
		t.Fatalf("got name %q, want Alice Smith", claims.Name)
	}
}

func TestVerifyRejections(t *testing.T) {
	m := auth.NewManager("test-secret", 7*24*time.Hour)

	goodToken, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	otherSecret := auth.NewManager("other-secret", 7*24*time.Hour)
	wrongSecretToken, err := otherSecret.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	expired := auth.NewManager("test-secret", -time.Minute)
	expiredToken, err := expired.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"wrong_secret", wrongSecretToken},
		{"expired", expiredToken},
		{"tampered", goodToken + "x"},
		{"wrong_issuer", signedWith(t, "test-secret", "someone-else", auth.Audience)},
		{"wrong_audience", signedWith(t, "test-secret", auth.Issuer, "someone-else")},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token)

			if err == nil {
				t.Fatalf("Verify accepted an invalid token")
			}

			// every rejection collapses to the one generic error
			if !errors.Is(err, auth.ErrInvalidToken) {
				t.Fatalf("got %v, want ErrInvalidToken", err)
			}
		})
	}
}

// signedWith builds a token with arbitrary issuer/audience but a valid
// signature, to prove those claims are actually checked.
func signedWith(t *testing.T, secret, issuer, audience string) string {
	t.Helper()

	now := time.Now().UTC()

	claims := auth.Claims{
		UserID: 42,
		Email:  "alice@x.com",
		Name:   "Alice Smith",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))

	if err != nil {
		t.Fatalf("could not sign test token: %v", err)
	}

	return raw
}
