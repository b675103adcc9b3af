package jwt

import (
	"strings"
	"testing"
	"time"
)

func TestCreateValidate(t *testing.T) {
	claims := Claims{
		UserID:         "u1",
		IssuedAt:       time.Now().Unix(),
		ExpirationTime: time.Now().Add(time.Hour).Unix(),
	}

	token, err := Create(claims, "secret")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	header, got, err := Validate(token, "secret")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if header.Algorithm != "HS256" {
		t.Fatalf("expected HS256 got %s", header.Algorithm)
	}
	if got.UserID != "u1" {
		t.Fatalf("expected userId u1 got %s", got.UserID)
	}
}

func TestValidateRejects(t *testing.T) {
	valid, _ := Create(Claims{UserID: "u1"}, "secret")
	expired, _ := Create(Claims{UserID: "u1", ExpirationTime: time.Now().Add(-time.Minute).Unix()}, "secret")

	split := strings.Split(valid, ".")
	tampered := split[0] + "." + split[1] + "x." + split[2]

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", valid},
		{"expired", expired},
		{"tampered payload", tampered},
		{"not a jwt", "abc"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret := "secret"
			if tt.name == "wrong secret" {
				secret = "other"
			}
			if _, _, err := Validate(tt.token, secret); err == nil {
				t.Fatalf("expected validation to fail")
			}
		})
	}
}

