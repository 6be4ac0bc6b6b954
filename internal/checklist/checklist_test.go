package checklist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddRoutesExactVsPattern(t *testing.T) {
	cl := New()

	if got := cl.Add("www.example.com"); got != 1 {
		t.Fatalf("first add = %d, want 1", got)
	}
	if got := cl.Add("www.example.com"); got != 0 {
		t.Fatalf("second add = %d, want 0 (idempotent)", got)
	}
	if cl.Count() != 1 {
		t.Fatalf("count = %d, want 1", cl.Count())
	}

	if got := cl.Add("example.*"); got != 1 {
		t.Fatalf("pattern add = %d, want 1", got)
	}
	if cl.Count() != 2 {
		t.Fatalf("count = %d, want 2", cl.Count())
	}
	if got := cl.Add("example.*"); got != 0 {
		t.Fatalf("duplicate pattern add = %d, want 0", got)
	}
}

func TestCheckGlobSemantics(t *testing.T) {
	cl := New()
	cl.Add("www.example.com")
	cl.Add("www.gnu.org")
	cl.Add("example.*")
	cl.Add("*.debian.org")

	for _, want := range []string{
		"www.example.com", "www.gnu.org", "example.org", "example.co.jp",
		"deb.debian.org", "ftp.jp.debian.org",
	} {
		if !cl.Check(want) {
			t.Errorf("Check(%q) = false, want true", want)
		}
	}
	for _, want := range []string{
		"example", "www.example", "debian.org", "www.google.co.jp",
	} {
		if cl.Check(want) {
			t.Errorf("Check(%q) = true, want false", want)
		}
	}
}

func TestCheckMonotoneAfterAdd(t *testing.T) {
	cl := New()
	if cl.Check("a.test") {
		t.Fatal("a.test should not be present yet")
	}
	if got := cl.Add("a.test"); got != 1 {
		t.Fatalf("add = %d, want 1", got)
	}
	if !cl.Check("a.test") {
		t.Fatal("a.test should be present after add")
	}
}

func TestDeleteOnlyRemovesExactNames(t *testing.T) {
	cl := New()
	cl.Add("a.test")
	cl.Add("*.example.com")

	if got := cl.Delete("a.test"); got != 1 {
		t.Fatalf("delete exact = %d, want 1", got)
	}
	if got := cl.Delete("a.test"); got != 0 {
		t.Fatalf("delete missing = %d, want 0", got)
	}

	// Deleting a literal containing '*' never touches the pattern set.
	if got := cl.Delete("*.example.com"); got != 0 {
		t.Fatalf("delete pattern via Delete = %d, want 0 (patterns are exact-name-only removable)", got)
	}
	if !cl.Check("a.example.com") {
		t.Fatal("pattern should survive Delete")
	}
}

func TestSaveWithoutPathFails(t *testing.T) {
	cl := New()
	cl.Add("a.test")
	if err := cl.Save(); err != ErrSaveButInMemory {
		t.Fatalf("got %v, want ErrSaveButInMemory", err)
	}
}

func TestSaveThenLoadRecoversSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "allowlist.txt")

	// CheckList.New never carries a path, so write the on-disk form
	// directly and Load it to get a path-bound list.
	if err := os.WriteFile(path, []byte("a.test\nb.test\n*.example.com\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cl, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cl.Count() != 3 {
		t.Fatalf("count = %d, want 3", cl.Count())
	}
	cl.Add("c.test")
	if err := cl.Save(); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Count() != 4 {
		t.Fatalf("count after reload = %d, want 4", reloaded.Count())
	}
	if !reloaded.Check("c.test") || !reloaded.Check("a.example.com") {
		t.Fatal("reloaded set missing expected members")
	}
}

func TestSaveSortsNamesThenPatterns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "allowlist.txt")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	cl, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cl.Add("zeta.test")
	cl.Add("alpha.test")
	cl.Add("*.zzz.test")
	cl.Add("*.aaa.test")

	if err := cl.Save(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "alpha.test\nzeta.test\n*.aaa.test\n*.zzz.test\n"
	if string(data) != want {
		t.Fatalf("got %q, want %q", string(data), want)
	}
}

func TestIterYieldsAllEntries(t *testing.T) {
	cl := New()
	cl.Add("a.test")
	cl.Add("*.b.test")
	entries := cl.Iter()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
}
