package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bwtil-go/lz77bwt/digest"
)

func writeTempFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.bin")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestReadsAllBytesInOrder(t *testing.T) {
	want := "hello, world"
	path := writeTempFile(t, want)

	r, err := Open(path, digest.SHA256)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if got := r.Size(); got != int64(len(want)) {
		t.Fatalf("Size() = %d, want %d", got, len(want))
	}

	var got []byte
	for !r.Eof() {
		b, err := r.Get()
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		got = append(got, b)
	}
	if string(got) != want {
		t.Fatalf("read %q, want %q", got, want)
	}
}

func TestRewindReplaysSameBytes(t *testing.T) {
	want := "abcdefgh"
	path := writeTempFile(t, want)

	r, err := Open(path, digest.SHA256)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	for !r.Eof() {
		if _, err := r.Get(); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if err := r.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}

	var second []byte
	for !r.Eof() {
		b, err := r.Get()
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		second = append(second, b)
	}
	if string(second) != want {
		t.Fatalf("second pass read %q, want %q", second, want)
	}
	if err := r.VerifyPasses(); err != nil {
		t.Fatalf("VerifyPasses: %v", err)
	}
}

func TestVerifyPassesCatchesTruncatedSecondPass(t *testing.T) {
	path := writeTempFile(t, "consistent-bytes")

	r, err := Open(path, digest.SHA256)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	for !r.Eof() {
		if _, err := r.Get(); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if err := r.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	// Simulate a reader bug: only consume part of the second pass.
	for i := 0; i < 3; i++ {
		if _, err := r.Get(); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if err := r.VerifyPasses(); err == nil {
		t.Fatal("VerifyPasses() = nil, want mismatch error for a truncated second pass")
	}
}

func TestOpenMissingFileFails(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "does-not-exist"), digest.SHA256); err == nil {
		t.Fatal("Open(missing file) = nil error, want failure")
	}
}
