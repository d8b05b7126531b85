package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/remit/internal/config"
	"github.com/JaimeStill/remit/internal/notifications"
	"github.com/JaimeStill/remit/internal/workflow"
	"github.com/JaimeStill/remit/pkg/mailer"
	"github.com/JaimeStill/remit/pkg/pdftext"
)

func TestProcessFilesInputErrors(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "missing.pdf"),
	}

	outcomes := processFiles(context.Background(), &workflow.Runtime{}, paths, 2)

	if len(outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(outcomes))
	}
	if !errors.Is(outcomes[0].Err, pdftext.ErrNotPDF) {
		t.Errorf("notes.txt err = %v", outcomes[0].Err)
	}
	if !errors.Is(outcomes[1].Err, pdftext.ErrNotFound) {
		t.Errorf("missing.pdf err = %v", outcomes[1].Err)
	}
	for i, o := range outcomes {
		if o.Path != paths[i] {
			t.Errorf("outcome %d path = %q, want %q", i, o.Path, paths[i])
		}
	}
}

func sampleOutcomes() []outcome {
	return []outcome{
		{
			Path: "a.pdf",
			Result: &workflow.Result{
				Status:       workflow.StatusApproved,
				Errors:       []string{},
				Notification: workflow.Notification{Sent: true},
			},
		},
		{
			Path: "b.pdf",
			Result: &workflow.Result{
				Status:       workflow.StatusRejected,
				Errors:       []string{"Amount below minimum"},
				Notification: workflow.Notification{Error: "dial tcp: refused"},
			},
		},
		{Path: "c.pdf", Err: errors.New("execute graph: boom")},
	}
}

func TestReportText(t *testing.T) {
	var buf bytes.Buffer
	if err := report(&buf, sampleOutcomes(), false); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"Status: APPROVED",
		"All Checks Passed",
		"Email: sent",
		"Status: REJECTED",
		"- Amount below minimum",
		"Email: failed: dial tcp: refused",
		"ERROR: execute graph: boom",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := report(&buf, sampleOutcomes(), true); err != nil {
		t.Fatal(err)
	}

	var got []struct {
		Path   string           `json:"path"`
		Result *workflow.Result `json:"result"`
		Error  string           `json:"error"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Result == nil || got[0].Result.Status != workflow.StatusApproved {
		t.Errorf("first = %+v", got[0])
	}
	if got[2].Error != "execute graph: boom" || got[2].Result != nil {
		t.Errorf("third = %+v", got[2])
	}
}

func TestNewNotifierWithoutCredentials(t *testing.T) {
	cfg := &config.Config{
		Notifications: notifications.Config{Recipient: "approver@example.com"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	n := newNotifier(cfg, logger)
	if n == nil {
		t.Fatal("notifier is nil")
	}

	err := n.Notify(context.Background(), notifications.Decision{Approved: true})
	if !errors.Is(err, mailer.ErrNotConfigured) {
		t.Errorf("Notify err = %v, want %v", err, mailer.ErrNotConfigured)
	}
}
