package query_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/remit/pkg/query"
)

func projection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "submissions", "s").
		Project("id", "ID").
		Project("vendor_name", "VendorName").
		Project("status", "Status").
		Project("created_at", "CreatedAt")
}

func strPtr(s string) *string { return &s }

func TestProjectionMap(t *testing.T) {
	p := projection()

	if got := p.From(); got != "public.submissions s" {
		t.Errorf("From = %q", got)
	}
	if got := p.Columns(); got != "s.id, s.vendor_name, s.status, s.created_at" {
		t.Errorf("Columns = %q", got)
	}
	if got := p.Column("VendorName"); got != "s.vendor_name" {
		t.Errorf("Column = %q", got)
	}
	if p.Has("password") || p.Column("password") != "" {
		t.Error("unknown field should not resolve")
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		in   string
		want []query.SortField
	}{
		{"", nil},
		{"VendorName", []query.SortField{{Field: "VendorName"}}},
		{"VendorName, -CreatedAt", []query.SortField{{Field: "VendorName"}, {Field: "CreatedAt", Descending: true}}},
		{",,-Status,", []query.SortField{{Field: "Status", Descending: true}}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, query.ParseSortFields(tt.in)); diff != "" {
			t.Errorf("ParseSortFields(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestBuilderPage(t *testing.T) {
	var status *string
	sql, args := query.NewBuilder(projection(), query.SortField{Field: "CreatedAt", Descending: true}).
		WhereSearch(strPtr("acme"), "VendorName", "Status").
		WhereEquals("Status", "approved").
		WhereEquals("Status", status).
		WhereContains("VendorName", strPtr("corp")).
		BuildPage(3, 10)

	wantSQL := "SELECT s.id, s.vendor_name, s.status, s.created_at FROM public.submissions s" +
		" WHERE (s.vendor_name ILIKE $1 OR s.status ILIKE $2) AND s.status = $3 AND s.vendor_name ILIKE $4" +
		" ORDER BY s.created_at DESC LIMIT 10 OFFSET 20"
	if sql != wantSQL {
		t.Errorf("sql:\n got %s\nwant %s", sql, wantSQL)
	}

	wantArgs := []any{"%acme%", "%acme%", "approved", "%corp%"}
	if diff := cmp.Diff(wantArgs, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilderIgnoresUnknownFields(t *testing.T) {
	sql, args := query.NewBuilder(projection()).
		WhereEquals("1=1; DROP TABLE submissions", "x").
		OrderByFields([]query.SortField{{Field: "nope"}}).
		BuildCount()

	if sql != "SELECT COUNT(*) FROM public.submissions s" {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v", args)
	}
}

func TestBuilderSortOverride(t *testing.T) {
	sql, _ := query.NewBuilder(projection(), query.SortField{Field: "CreatedAt", Descending: true}).
		OrderByFields(query.ParseSortFields("VendorName")).
		BuildPage(1, 5)

	want := "SELECT s.id, s.vendor_name, s.status, s.created_at FROM public.submissions s ORDER BY s.vendor_name ASC LIMIT 5 OFFSET 0"
	if sql != want {
		t.Errorf("sql = %q", sql)
	}
}

func TestBuilderRange(t *testing.T) {
	sql, args := query.NewBuilder(projection()).
		WhereAtLeast("CreatedAt", "2026-01-01").
		WhereAtMost("CreatedAt", "2026-02-01").
		BuildCount()

	want := "SELECT COUNT(*) FROM public.submissions s WHERE s.created_at >= $1 AND s.created_at <= $2"
	if sql != want {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 2 {
		t.Errorf("args = %v", args)
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(projection()).BuildSingle("ID", "abc")
	want := "SELECT s.id, s.vendor_name, s.status, s.created_at FROM public.submissions s WHERE s.id = $1"
	if sql != want {
		t.Errorf("sql = %q", sql)
	}
	if diff := cmp.Diff([]any{"abc"}, args); diff != "" {
		t.Errorf("args mismatch: %s", diff)
	}
}
