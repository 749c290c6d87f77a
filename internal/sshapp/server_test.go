package sshapp

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stock-assistant/internal/dataset"
	"stock-assistant/internal/logging"
	"stock-assistant/internal/tui"

	gossh "golang.org/x/crypto/ssh"
)

func newPublicKey(t *testing.T) gossh.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	key, err := gossh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("wrap key: %v", err)
	}
	return key
}

func TestParseAuthorizedKeys(t *testing.T) {
	allowed := newPublicKey(t)
	other := newPublicKey(t)

	data := []byte("# team keys\n\n" + string(gossh.MarshalAuthorizedKey(allowed)))
	ring, err := ParseAuthorizedKeys(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ring.Len() != 1 {
		t.Fatalf("expected 1 key, got %d", ring.Len())
	}
	if !ring.Allows(allowed) {
		t.Fatal("expected listed key to be allowed")
	}
	if ring.Allows(other) {
		t.Fatal("expected unlisted key to be rejected")
	}
}

func TestParseAuthorizedKeysRejectsGarbage(t *testing.T) {
	if _, err := ParseAuthorizedKeys([]byte("not-a-key\n")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEmptyKeyRingAllowsAll(t *testing.T) {
	var ring *KeyRing
	if !ring.Allows(newPublicKey(t)) {
		t.Fatal("expected nil ring to allow any key")
	}
	if !(&KeyRing{}).Allows(newPublicKey(t)) {
		t.Fatal("expected empty ring to allow any key")
	}
}

func TestLoadAuthorizedKeysMissingFile(t *testing.T) {
	if _, err := LoadAuthorizedKeys(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNewServerAndServe(t *testing.T) {
	dir := t.TempDir()
	keysPath := filepath.Join(dir, "authorized_keys")
	if err := os.WriteFile(keysPath, gossh.MarshalAuthorizedKey(newPublicKey(t)), 0o600); err != nil {
		t.Fatalf("write keys: %v", err)
	}
	catalog, err := dataset.Default()
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}

	srv, err := NewServer(Config{
		Bind:               "127.0.0.1",
		Port:               0,
		HostKeyPath:        filepath.Join(dir, "host_ed25519"),
		AuthorizedKeysPath: keysPath,
		Services:           tui.Services{Catalog: catalog, Logger: logging.Discard()},
		Logger:             logging.Discard(),
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv, logging.Discard()) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ssh server did not stop")
	}
}

func TestNewServerBadAuthorizedKeys(t *testing.T) {
	_, err := NewServer(Config{
		HostKeyPath:        filepath.Join(t.TempDir(), "host"),
		AuthorizedKeysPath: filepath.Join(t.TempDir(), "missing"),
		Logger:             logging.Discard(),
	})
	if err == nil {
		t.Fatal("expected error for unreadable authorized keys")
	}
}
