package mirror

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"google.golang.org/api/googleapi"
)

func TestPermanent(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&googleapi.Error{Code: http.StatusForbidden}, true},
		{&googleapi.Error{Code: http.StatusNotFound}, true},
		{fmt.Errorf("wrapped: %w", &googleapi.Error{Code: http.StatusBadRequest}), true},
		{&googleapi.Error{Code: http.StatusTooManyRequests}, false},
		{&googleapi.Error{Code: http.StatusServiceUnavailable}, false},
		{os.ErrDeadlineExceeded, false},
	}
	for _, tt := range tests {
		if got := permanent(tt.err); got != tt.want {
			t.Errorf("permanent(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestNewDriveBadCredentials(t *testing.T) {
	ctx := context.Background()
	if _, err := NewDrive(ctx, filepath.Join(t.TempDir(), "missing.json"), "folder", logger.Nop()); err == nil {
		t.Fatal("expected error for a missing credentials file")
	}

	path := filepath.Join(t.TempDir(), "creds.json")
	if err := os.WriteFile(path, []byte(`{"type":"nope"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewDrive(ctx, path, "folder", logger.Nop()); err == nil {
		t.Fatal("expected error for malformed credentials")
	}
}

func TestNopUpload(t *testing.T) {
	if err := (Nop{}).Upload(context.Background(), "/nowhere", "x", "image/png"); err != nil {
		t.Fatalf("Nop.Upload: %v", err)
	}
}
