package prompts_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/remit/internal/prompts"
	"github.com/JaimeStill/remit/pkg/pagination"
)

type mockSystem struct {
	prompts.System
	find         func(ctx context.Context, id uuid.UUID) (*prompts.Prompt, error)
	create       func(ctx context.Context, cmd prompts.Command) (*prompts.Prompt, error)
	instructions func(ctx context.Context, stage prompts.Stage) (string, error)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*prompts.Prompt, error) {
	return m.find(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd prompts.Command) (*prompts.Prompt, error) {
	return m.create(ctx, cmd)
}

func (m *mockSystem) Instructions(ctx context.Context, stage prompts.Stage) (string, error) {
	return m.instructions(ctx, stage)
}

func (m *mockSystem) Spec(_ context.Context, stage prompts.Stage) (string, error) {
	return prompts.Spec(stage)
}

func serve(sys prompts.System) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := prompts.NewHandler(sys, logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})

	mux := http.NewServeMux()
	g := h.Routes()
	for _, r := range g.Routes {
		mux.HandleFunc(r.Method+" "+g.Prefix+r.Pattern, r.Handler)
	}
	return mux
}

func TestParseStage(t *testing.T) {
	for _, s := range []string{"extract", "transcribe"} {
		if _, err := prompts.ParseStage(s); err != nil {
			t.Errorf("ParseStage(%q): %v", s, err)
		}
	}
	if _, err := prompts.ParseStage("classify"); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("err = %v", err)
	}

	var stage prompts.Stage
	if err := json.Unmarshal([]byte(`"bogus"`), &stage); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("unmarshal err = %v", err)
	}
}

func TestCommandValidate(t *testing.T) {
	tests := []struct {
		name string
		cmd  prompts.Command
		want error
	}{
		{"valid", prompts.Command{Name: " strict ", Stage: prompts.StageExtract, Instructions: "be strict"}, nil},
		{"no name", prompts.Command{Stage: prompts.StageExtract, Instructions: "x"}, prompts.ErrInvalid},
		{"no instructions", prompts.Command{Name: "a", Stage: prompts.StageExtract, Instructions: "  "}, prompts.ErrInvalid},
		{"bad stage", prompts.Command{Name: "a", Stage: "finalize", Instructions: "x"}, prompts.ErrInvalidStage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.cmd
			err := cmd.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	src := prompts.Defaults()
	ctx := context.Background()

	for _, stage := range prompts.Stages() {
		text, err := src.Instructions(ctx, stage)
		if err != nil || text == "" {
			t.Errorf("%s instructions = %q, %v", stage, text, err)
		}
		spec, err := src.Spec(ctx, stage)
		if err != nil || spec == "" {
			t.Errorf("%s spec = %q, %v", stage, spec, err)
		}
	}

	text, _ := src.Instructions(ctx, prompts.StageExtract)
	if !strings.Contains(text, "YYYY-MM-DD") || !strings.Contains(text, "0.10 for 10%") {
		t.Errorf("extract instructions missing guidelines: %q", text)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{prompts.ErrNotFound, http.StatusNotFound},
		{prompts.ErrDuplicate, http.StatusConflict},
		{prompts.ErrInvalidStage, http.StatusBadRequest},
		{prompts.ErrInvalid, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := prompts.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestHandlerInstructions(t *testing.T) {
	sys := &mockSystem{instructions: func(_ context.Context, stage prompts.Stage) (string, error) {
		return "override for " + string(stage), nil
	}}
	mux := serve(sys)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/prompts/stages/extract/instructions", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got prompts.StageContent
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Stage != prompts.StageExtract || got.Content != "override for extract" {
		t.Errorf("content = %+v", got)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/prompts/stages/classify/spec", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown stage status = %d", rec.Code)
	}
}

func TestHandlerFind(t *testing.T) {
	id := uuid.New()
	sys := &mockSystem{find: func(_ context.Context, got uuid.UUID) (*prompts.Prompt, error) {
		if got != id {
			return nil, prompts.ErrNotFound
		}
		return &prompts.Prompt{ID: id, Name: "strict", Stage: prompts.StageExtract}, nil
	}}
	mux := serve(sys)

	tests := []struct {
		path string
		want int
	}{
		{"/prompts/" + id.String(), http.StatusOK},
		{"/prompts/" + uuid.NewString(), http.StatusNotFound},
		{"/prompts/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
}

func TestHandlerCreate(t *testing.T) {
	sys := &mockSystem{create: func(_ context.Context, cmd prompts.Command) (*prompts.Prompt, error) {
		if err := cmd.Validate(); err != nil {
			return nil, err
		}
		return &prompts.Prompt{ID: uuid.New(), Name: cmd.Name, Stage: cmd.Stage, Instructions: cmd.Instructions}, nil
	}}
	mux := serve(sys)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"created", `{"name":"strict","stage":"extract","instructions":"Never guess."}`, http.StatusCreated},
		{"unknown stage", `{"name":"strict","stage":"enhance","instructions":"x"}`, http.StatusBadRequest},
		{"missing name", `{"stage":"extract","instructions":"x"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("POST", "/prompts", strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}
