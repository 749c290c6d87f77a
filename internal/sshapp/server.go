// Package sshapp serves the assistant TUI over SSH.
package sshapp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"stock-assistant/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	gossh "golang.org/x/crypto/ssh"
)

type Config struct {
	Bind               string
	Port               int
	HostKeyPath        string
	AuthorizedKeysPath string
	Services           tui.Services
	Logger             *log.Logger
}

// KeyRing is an allow-list of public keys. An empty ring allows every key.
type KeyRing struct {
	keys [][]byte
}

// LoadAuthorizedKeys parses an OpenSSH authorized_keys file. Blank lines and
// comments are skipped.
func LoadAuthorizedKeys(path string) (*KeyRing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading authorized keys: %w", err)
	}
	return ParseAuthorizedKeys(data)
}

func ParseAuthorizedKeys(data []byte) (*KeyRing, error) {
	ring := &KeyRing{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, _, _, _, err := gossh.ParseAuthorizedKey([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("authorized keys line %d: %w", lineNo, err)
		}
		ring.keys = append(ring.keys, key.Marshal())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning authorized keys: %w", err)
	}
	return ring, nil
}

func (r *KeyRing) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Allows reports whether key may open a session.
func (r *KeyRing) Allows(key gossh.PublicKey) bool {
	if r.Len() == 0 {
		return true
	}
	if key == nil {
		return false
	}
	wire := key.Marshal()
	for _, k := range r.keys {
		if bytes.Equal(k, wire) {
			return true
		}
	}
	return false
}

// NewServer builds the wish server. A missing host key is generated at
// HostKeyPath.
func NewServer(cfg Config) (*ssh.Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	logger := cfg.Logger.With("component", "ssh")

	ring := &KeyRing{}
	if cfg.AuthorizedKeysPath != "" {
		var err error
		ring, err = LoadAuthorizedKeys(cfg.AuthorizedKeysPath)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded authorized keys", "count", ring.Len())
	}

	return wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Bind, strconv.Itoa(cfg.Port))),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			ok := ring.Allows(key)
			if !ok {
				logger.Warn("rejected public key", "user", ctx.User(), "fingerprint", gossh.FingerprintSHA256(key))
			}
			return ok
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(Handler(cfg.Services)),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
	)
}

// Handler starts a fresh conversation for every SSH session.
func Handler(svc tui.Services) bubbletea.Handler {
	return func(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
		sessionSvc := svc
		sessionSvc.Username = sess.User()

		m := tui.NewAppModel(sessionSvc)
		if pty, _, ok := sess.Pty(); ok {
			m.SetSize(pty.Window.Width, pty.Window.Height)
		}
		return m, []tea.ProgramOption{tea.WithAltScreen()}
	}
}

// Serve runs srv until ctx is cancelled, then shuts it down.
func Serve(ctx context.Context, srv *ssh.Server, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("ssh server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("shutting down ssh server: %w", err)
	}
	return nil
}
