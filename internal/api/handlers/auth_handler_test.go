package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskforge/taskforge/internal/apperr"
	"github.com/taskforge/taskforge/internal/auth"
	"github.com/taskforge/taskforge/internal/models"
)

type fakeUserService struct {
	registerCalled bool
	registerErr    error
	users          map[string]models.User // keyed by username, password is "hunter22"
}

func (f *fakeUserService) Register(_ context.Context, username, email, _ string) (models.User, error) {
	f.registerCalled = true
	if f.registerErr != nil {
		return models.User{}, f.registerErr
	}
	return models.User{ID: primitive.NewObjectID(), Username: username, Email: email}, nil
}

func (f *fakeUserService) Authenticate(_ context.Context, username, password string) (models.User, error) {
	user, ok := f.users[username]
	if !ok || password != "hunter22" {
		return models.User{}, apperr.AuthInvalid("Invalid credentials")
	}
	return user, nil
}

func (f *fakeUserService) GetUserByID(context.Context, string) (models.User, error) {
	return models.User{}, apperr.NotFound("User not found")
}

func newTestTokens() *auth.TokenService {
	return auth.NewTokenService("test-secret", time.Hour)
}

func TestAuthHandler_RegisterIssuesToken(t *testing.T) {
	tokens := newTestTokens()
	handler := NewAuthHandler(&fakeUserService{}, tokens)

	body := `{"username": "alice_01", "email": "Alice@Example.com", "password": "secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp.User.Username != "alice_01" {
		t.Errorf("username = %q, want alice_01", resp.User.Username)
	}

	claims, err := tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Username != "alice_01" {
		t.Errorf("token username = %q, want alice_01", claims.Username)
	}
}

func TestAuthHandler_RegisterValidationStopsBeforeService(t *testing.T) {
	fake := &fakeUserService{}
	handler := NewAuthHandler(fake, newTestTokens())

	body := `{"username": "x", "email": "bad", "password": "short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	if fake.registerCalled {
		t.Error("service must not be reached when validation fails")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var resp struct {
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if len(resp.Details) != 3 {
		t.Errorf("details = %v, want all three violations reported", resp.Details)
	}
}

func TestAuthHandler_RegisterConflict(t *testing.T) {
	fake := &fakeUserService{registerErr: apperr.Conflict("Username is already taken")}
	handler := NewAuthHandler(fake, newTestTokens())

	body := `{"username": "alice_01", "email": "a@b.co", "password": "secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestAuthHandler_LoginInvalidCredentials(t *testing.T) {
	fake := &fakeUserService{users: map[string]models.User{}}
	handler := NewAuthHandler(fake, newTestTokens())

	body := `{"username": "nobody", "password": "hunter22"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthHandler_Verify(t *testing.T) {
	handler := NewAuthHandler(&fakeUserService{}, newTestTokens())

	tokens := newTestTokens()
	token, err := tokens.Issue("64a0c0ffee0badc0ffee0bad", "alice_01")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req = req.WithContext(auth.ContextWithClaims(req.Context(), claims))
	rec := httptest.NewRecorder()
	handler.Verify(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Claims struct {
			UserID   string `json:"userId"`
			Username string `json:"username"`
		} `json:"claims"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp.Claims.UserID != claims.UserID || resp.Claims.Username != claims.Username {
		t.Errorf("claims = %+v, want the verified identity echoed", resp.Claims)
	}
}
