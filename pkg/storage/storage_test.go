package storage_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/JaimeStill/remit/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=remitstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/remitstore;"

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("REMIT_TEST_STORAGE_CONN", azuriteConnString)
	t.Setenv("REMIT_TEST_STORAGE_LIST", "200")

	cfg := storage.Config{}
	err := cfg.Finalize(&storage.Env{
		ConnectionString: "REMIT_TEST_STORAGE_CONN",
		MaxListSize:      "REMIT_TEST_STORAGE_LIST",
	})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if cfg.ContainerName != "invoices" {
		t.Errorf("ContainerName = %q", cfg.ContainerName)
	}
	if cfg.MaxListSize != 200 {
		t.Errorf("MaxListSize = %d", cfg.MaxListSize)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{"missing connection string", storage.Config{}},
		{"list size above cap", storage.Config{ConnectionString: azuriteConnString, MaxListSize: storage.MaxListCap + 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNew(t *testing.T) {
	if _, err := storage.New(&storage.Config{ContainerName: "invoices", ConnectionString: azuriteConnString}, discard()); err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := storage.New(&storage.Config{ContainerName: "invoices", ConnectionString: "nope"}, discard()); err == nil {
		t.Fatal("expected error for invalid connection string")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", storage.ErrNotFound), http.StatusNotFound},
		{storage.ErrEmptyKey, http.StatusBadRequest},
		{storage.ErrInvalidKey, http.StatusBadRequest},
		{storage.ErrMaxResults, http.StatusBadRequest},
		{errors.New("network"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := storage.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseMaxResults(t *testing.T) {
	tests := []struct {
		in      string
		want    int32
		wantErr bool
	}{
		{"", 50, false},
		{"10", 10, false},
		{"999999", storage.MaxListCap, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"ten", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := storage.ParseMaxResults(tt.in, 50)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, storage.ErrMaxResults) {
				t.Errorf("err = %v, want ErrMaxResults", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKeyValidation(t *testing.T) {
	sys, err := storage.New(&storage.Config{ContainerName: "invoices", ConnectionString: azuriteConnString}, discard())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		key  string
		want error
	}{
		{"empty", "", storage.ErrEmptyKey},
		{"traversal", "submissions/../secrets", storage.ErrInvalidKey},
		{"leading traversal", "../invoice.pdf", storage.ErrInvalidKey},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := sys.Upload(ctx, tt.key, bytes.NewReader(nil), "application/pdf"); !errors.Is(err, tt.want) {
				t.Errorf("Upload = %v", err)
			}
			if _, err := sys.Download(ctx, tt.key); !errors.Is(err, tt.want) {
				t.Errorf("Download = %v", err)
			}
			if _, err := sys.Find(ctx, tt.key); !errors.Is(err, tt.want) {
				t.Errorf("Find = %v", err)
			}
			if err := sys.Delete(ctx, tt.key); !errors.Is(err, tt.want) {
				t.Errorf("Delete = %v", err)
			}
			if _, err := sys.Exists(ctx, tt.key); !errors.Is(err, tt.want) {
				t.Errorf("Exists = %v", err)
			}
		})
	}
}
