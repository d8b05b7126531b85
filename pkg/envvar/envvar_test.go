package envvar_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/remit/pkg/envvar"
)

func TestString(t *testing.T) {
	t.Setenv("REMIT_TEST_HOST", "db.internal")

	host := "localhost"
	envvar.String("REMIT_TEST_HOST", &host)
	if host != "db.internal" {
		t.Errorf("host = %q", host)
	}

	name := "remit"
	envvar.String("", &name)
	envvar.String("REMIT_TEST_UNSET", &name)
	if name != "remit" {
		t.Errorf("name = %q, want unchanged", name)
	}
}

func TestNumericAndBool(t *testing.T) {
	t.Setenv("REMIT_TEST_PORT", "6543")
	t.Setenv("REMIT_TEST_BAD_PORT", "sixty")
	t.Setenv("REMIT_TEST_SIZE", "26214400")
	t.Setenv("REMIT_TEST_FLAG", "true")

	port := 5432
	envvar.Int("REMIT_TEST_PORT", &port)
	if port != 6543 {
		t.Errorf("port = %d", port)
	}

	envvar.Int("REMIT_TEST_BAD_PORT", &port)
	if port != 6543 {
		t.Errorf("invalid value should be ignored, port = %d", port)
	}

	var size int64
	envvar.Int64("REMIT_TEST_SIZE", &size)
	if size != 26214400 {
		t.Errorf("size = %d", size)
	}

	var flag bool
	envvar.Bool("REMIT_TEST_FLAG", &flag)
	if !flag {
		t.Error("flag = false")
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("REMIT_TEST_TIMEOUT", "45s")
	t.Setenv("REMIT_TEST_BAD_TIMEOUT", "soon")

	timeout := "30s"
	envvar.Duration("REMIT_TEST_BAD_TIMEOUT", &timeout)
	if timeout != "30s" {
		t.Errorf("timeout = %q", timeout)
	}

	envvar.Duration("REMIT_TEST_TIMEOUT", &timeout)
	if timeout != "45s" {
		t.Errorf("timeout = %q", timeout)
	}
}

func TestList(t *testing.T) {
	t.Setenv("REMIT_TEST_ORIGINS", " http://a.test , ,http://b.test")

	var origins []string
	envvar.List("REMIT_TEST_ORIGINS", &origins)

	want := []string{"http://a.test", "http://b.test"}
	if diff := cmp.Diff(want, origins); diff != "" {
		t.Errorf("origins mismatch (-want +got):\n%s", diff)
	}
}
