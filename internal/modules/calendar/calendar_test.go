package calendar

import (
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func TestTokenStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens", "calendar.json")
	store := NewTokenStore(path)

	tok, err := store.Load()
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if tok != nil {
		t.Fatal("missing file should load as nil token")
	}

	want := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour).Truncate(time.Second),
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken {
		t.Errorf("loaded token %+v, want %+v", got, want)
	}
}

func TestTokenStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.json")
	store := NewTokenStore(path)

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear on missing file should be a no-op: %v", err)
	}

	if err := store.Save(&oauth2.Token{AccessToken: "x"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	tok, err := store.Load()
	if err != nil || tok != nil {
		t.Errorf("token should be gone after Clear, got %+v, err %v", tok, err)
	}
}

func TestService_UninitializedErrors(t *testing.T) {
	svc, err := NewService("", filepath.Join(t.TempDir(), "token.json"), time.UTC)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if svc.Ready() {
		t.Error("service without credentials should not be ready")
	}
	if svc.IsAuthenticated() {
		t.Error("service without credentials cannot be authenticated")
	}
	if _, err := svc.AuthURL(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("AuthURL err = %v, want ErrNotInitialized", err)
	}
}

func TestService_MissingCredentialsFileIsNotFatal(t *testing.T) {
	svc, err := NewService(filepath.Join(t.TempDir(), "nope.json"), filepath.Join(t.TempDir(), "token.json"), time.UTC)
	if err != nil {
		t.Fatalf("missing credentials file should not fail startup: %v", err)
	}
	if svc.Ready() {
		t.Error("service should stay uninitialized")
	}
}

func TestMapAPIError_UnauthorizedClearsToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	svc := &Service{tokens: NewTokenStore(path), timezone: time.UTC}
	if err := svc.tokens.Save(&oauth2.Token{AccessToken: "stale"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	err := svc.mapAPIError(&googleapi.Error{Code: http.StatusUnauthorized})
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
	tok, _ := svc.tokens.Load()
	if tok != nil {
		t.Error("stale token should be cleared on 401")
	}
}

func TestMapAPIError_OtherErrorsPassThrough(t *testing.T) {
	svc := &Service{tokens: NewTokenStore(filepath.Join(t.TempDir(), "token.json")), timezone: time.UTC}

	orig := &googleapi.Error{Code: http.StatusInternalServerError}
	if err := svc.mapAPIError(orig); errors.Is(err, ErrAuthRequired) {
		t.Error("non-401 errors must not map to ErrAuthRequired")
	}
}
