package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/totegamma/saucebox"
)

func TestClient(t *testing.T) {
	var gets atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(saucebox.Session{UserID: "u1", Token: "tok"})
	})
	mux.HandleFunc("POST /api/sauces", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var payload saucebox.SaucePayload
		json.Unmarshal([]byte(r.FormValue("sauce")), &payload)
		file, header, err := r.FormFile("image")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		content, _ := io.ReadAll(file)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "sauce saved",
			"sauce":   saucebox.Sauce{ID: "s1", Name: payload.Name, ImageURL: header.Filename + ":" + string(content)},
		})
	})
	mux.HandleFunc("GET /api/sauces/{id}", func(w http.ResponseWriter, r *http.Request) {
		gets.Add(1)
		if r.PathValue("id") != "s1" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "sauce not found"})
			return
		}
		json.NewEncoder(w).Encode(saucebox.Sauce{ID: "s1", Name: "Sriracha"})
	})
	var updateBody map[string]any
	mux.HandleFunc("PUT /api/sauces/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&updateBody)
		json.NewEncoder(w).Encode(map[string]any{"message": "sauce updated", "sauce": saucebox.Sauce{ID: "s1"}})
	})
	mux.HandleFunc("POST /api/sauces/{id}/like", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"message": "like added", "sauce": saucebox.Sauce{ID: "s1", Likes: 1}})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := context.Background()
	c := New(server.URL + "/")

	session, err := c.Login(ctx, "alice@example.com", "pw")
	if err != nil || session.UserID != "u1" {
		t.Fatalf("login failed: %v %+v", err, session)
	}

	created, err := c.CreateSauce(ctx, saucebox.SaucePayload{Name: "Sriracha"}, "a.jpg", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != "s1" || created.Name != "Sriracha" || created.ImageURL != "a.jpg:img" {
		t.Errorf("unexpected created sauce %+v", created)
	}

	for range 2 {
		if _, err := c.GetSauce(ctx, "s1"); err != nil {
			t.Fatalf("get failed: %v", err)
		}
	}
	if gets.Load() != 1 {
		t.Errorf("expected the second get to be cached, got %d requests", gets.Load())
	}

	heat := 0
	if _, err := c.UpdateSauce(ctx, "s1", saucebox.SauceUpdate{Heat: &heat}, "", nil); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(updateBody) != 1 || updateBody["heat"] != float64(0) {
		t.Errorf("expected only the zero heat to be sent, got %v", updateBody)
	}

	_, msg, err := c.Vote(ctx, "s1", 1)
	if err != nil || msg != "like added" {
		t.Fatalf("vote failed: %v %q", err, msg)
	}
	c.GetSauce(ctx, "s1")
	if gets.Load() != 2 {
		t.Errorf("expected vote to drop the cached sauce, got %d requests", gets.Load())
	}

	_, err = c.GetSauce(ctx, "missing")
	var statusErr StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusNotFound || statusErr.Message != "sauce not found" {
		t.Errorf("expected a 404 status error, got %v", err)
	}
}
