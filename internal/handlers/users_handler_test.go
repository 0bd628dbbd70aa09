package handlers

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"name":"Jane Doe","email":"jane@example.com","password":"secret123"}`))
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}

	user, err := env.users.GetByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("stored user not found: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")); err != nil {
		t.Error("stored password hash does not match the submitted password")
	}

	wantHash := fmt.Sprintf("%x", md5.Sum([]byte("jane@example.com")))
	if !strings.Contains(user.Avatar, wantHash) {
		t.Errorf("avatar = %q, want gravatar URL containing %s", user.Avatar, wantHash)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(nil)
	env.seedUser(t, "Jane Doe", "jane@example.com", "secret123")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"name":"Other","email":"jane@example.com","password":"secret123"}`))
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "User already exists") {
		t.Errorf("body = %q, want duplicate-user message", rec.Body.String())
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"name":"","email":"bad","password":"short"}`))
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp struct {
		Errors []struct {
			Param string `json:"param"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Errors) != 3 {
		t.Fatalf("got %d field errors, want 3: %+v", len(resp.Errors), resp.Errors)
	}
}
