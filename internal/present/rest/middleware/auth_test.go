package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/totegamma/saucebox/internal/domain"
	"github.com/totegamma/saucebox/internal/service"
	"github.com/totegamma/saucebox/jwt"
)

func setup(t *testing.T) (*echo.Echo, string) {
	t.Helper()

	m := NewAuthMiddleware(service.NewAuthService(domain.Config{TokenSecret: "secret"}))

	e := echo.New()
	e.POST("/echo", func(c echo.Context) error {
		body, _ := io.ReadAll(c.Request().Body)
		return c.String(http.StatusOK, RequesterID(c)+"|"+string(body))
	}, m.RequireAuth)

	token, err := jwt.Create(jwt.Claims{UserID: "u1", ExpirationTime: time.Now().Add(time.Hour).Unix()}, "secret")
	if err != nil {
		t.Fatalf("failed to create token: %v", err)
	}
	return e, token
}

func TestRequireAuth(t *testing.T) {
	e, token := setup(t)
	expired, _ := jwt.Create(jwt.Claims{UserID: "u1", ExpirationTime: time.Now().Add(-time.Hour).Unix()}, "secret")

	tests := []struct {
		name   string
		header string
		body   string
		status int
	}{
		{"valid", "Bearer " + token, `{"like":1}`, http.StatusOK},
		{"matching userId", "Bearer " + token, `{"userId":"u1","like":1}`, http.StatusOK},
		{"null userId", "Bearer " + token, `{"userId":null}`, http.StatusOK},
		{"mismatched userId", "Bearer " + token, `{"userId":"u2","like":1}`, http.StatusUnauthorized},
		{"numeric userId", "Bearer " + token, `{"userId":7}`, http.StatusUnauthorized},
		{"mismatched userId with trailing data", "Bearer " + token, `{"userId":"u2","like":1} x`, http.StatusUnauthorized},
		{"matching userId with trailing data", "Bearer " + token, `{"userId":"u1","like":1} x`, http.StatusOK},
		{"missing header", "", `{}`, http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, `{}`, http.StatusUnauthorized},
		{"no token", "Bearer", `{}`, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, `{}`, http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", `{}`, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			res := httptest.NewRecorder()
			e.ServeHTTP(res, req)

			if res.Code != tt.status {
				t.Fatalf("expected %d got %d: %s", tt.status, res.Code, res.Body.String())
			}
		})
	}
}

func TestRequireAuthRestoresBody(t *testing.T) {
	e, token := setup(t)

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"userId":"u1","like":-1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	want := `u1|{"userId":"u1","like":-1}`
	if res.Body.String() != want {
		t.Fatalf("expected %q got %q", want, res.Body.String())
	}
}
