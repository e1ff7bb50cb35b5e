package storage

import (
	"errors"
	"io"
	"testing"

	"github.com/spf13/afero"
)

func newTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/media", 0755); err != nil {
		t.Fatalf("failed to create root: %v", err)
	}
	return NewStore(fs, "/media"), fs
}

func TestStoreReady(t *testing.T) {
	store, _ := newTestStore(t)
	if err := store.Ready(); err != nil {
		t.Errorf("expected ready store, got %v", err)
	}
}

func TestStoreNotReadyMissingRoot(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "/missing")
	if err := store.Ready(); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}

func TestStoreNotReadyRootIsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/media", []byte("not a dir"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	store := NewStore(fs, "/media")
	if err := store.Ready(); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}

func TestStoreOpenRelative(t *testing.T) {
	store, fs := newTestStore(t)
	if err := afero.WriteFile(fs, "/media/song.wav", []byte("abc"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	f, err := store.Open("song.wav")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "abc" {
		t.Errorf("expected abc, got %q", data)
	}
}

func TestStoreOpenAbsolute(t *testing.T) {
	store, fs := newTestStore(t)
	if err := afero.WriteFile(fs, "/elsewhere/song.wav", []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	f, err := store.Open("/elsewhere/song.wav")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	f.Close()
}

func TestStoreOpenMissing(t *testing.T) {
	store, _ := newTestStore(t)
	if _, err := store.Open("nope.wav"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	store, fs := newTestStore(t)
	afero.WriteFile(fs, "/media/a.wav", []byte("aaaa"), 0644)
	afero.WriteFile(fs, "/media/b.wav", []byte("bb"), 0644)
	fs.MkdirAll("/media/sub", 0755)

	entries, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	byName := map[string]Entry{}
	for _, e := range entries {
		byName[e.Name] = e
	}
	if e, ok := byName["a.wav"]; !ok || e.Dir || e.Size != 4 {
		t.Errorf("unexpected entry for a.wav: %+v", e)
	}
	if e, ok := byName["sub"]; !ok || !e.Dir {
		t.Errorf("unexpected entry for sub: %+v", e)
	}
}

func TestStoreListNotReady(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "/missing")
	if _, err := store.List(); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}
