package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDownloadReturnsBytesAndContentType(t *testing.T) {
	payload := strings.Repeat("p", 2048)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	d := NewDownloader(srv.Client(), 0)
	data, ct, err := d.Download(context.Background(), srv.URL+"/img.png")
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if len(data) != len(payload) {
		t.Fatalf("len(data) = %d, want %d", len(data), len(payload))
	}
	if ct != "image/png" {
		t.Fatalf("contentType = %q", ct)
	}
}

func TestDownloadRejectsNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Expired signed URLs answer 403.
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	d := NewDownloader(srv.Client(), 0)
	if _, _, err := d.Download(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 403")
	} else if !strings.Contains(err.Error(), "status 403") {
		t.Fatalf("error = %v", err)
	}
}

func TestDownloadEnforcesSizeCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
	}))
	defer srv.Close()

	d := NewDownloader(srv.Client(), 1024)
	if _, _, err := d.Download(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for oversized payload")
	} else if !strings.Contains(err.Error(), "byte limit") {
		t.Fatalf("error = %v", err)
	}
}

func TestDownloadRejectsInvalidURL(t *testing.T) {
	t.Parallel()
	d := NewDownloader(nil, 0)
	for _, raw := range []string{"", "not a url", "ftp://example.com/x", "/relative/path"} {
		if _, _, err := d.Download(context.Background(), raw); err == nil {
			t.Fatalf("Download accepted url %q", raw)
		}
	}
}

func TestDownloadUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	d := NewDownloader(nil, 0)
	if _, _, err := d.Download(context.Background(), url); err == nil {
		t.Fatal("expected error for closed server")
	}
}
