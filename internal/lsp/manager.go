package lsp

import (
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AttachConfig is shared by every server attachment: one debounce
// interval and one attach callback, applied identically to each server
// that comes up.
type AttachConfig struct {
	// Debounce is the text-change debounce before sync notifications.
	Debounce time.Duration

	// OnAttach is invoked once per attached server.
	OnAttach func(Session)
}

// Session is one prepared server attachment handed to the host.
type Session struct {
	// ID uniquely identifies the attachment.
	ID string

	// Server is the server description.
	Server ServerConfig

	// Capabilities is the client-capability JSON for initialization,
	// including any extension contributions.
	Capabilities []byte

	// Debounce is the shared text-change debounce.
	Debounce time.Duration
}

// Manager prepares language-server attachments.
type Manager struct {
	mu       sync.RWMutex
	log      zerolog.Logger
	attach   AttachConfig
	caps     []byte
	configs  []ServerConfig
	sessions []Session

	// lookPath is swappable for tests.
	lookPath func(string) (string, error)
}

// NewManager creates a manager with the shared attach configuration.
func NewManager(log zerolog.Logger, attach AttachConfig) *Manager {
	return &Manager{
		log:      log.With().Str("component", "lsp").Logger(),
		attach:   attach,
		caps:     BaseCapabilities(),
		lookPath: exec.LookPath,
	}
}

// Register queues a server for attachment. Order is preserved.
func (m *Manager) Register(cfg ServerConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs = append(m.configs, cfg)
}

// SetClientCapabilities overlays a capability fragment contributed by an
// extension. Must be called before StartAll; a nil fragment is a no-op.
func (m *Manager) SetClientCapabilities(fragment []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	merged, err := MergeCapabilities(m.caps, fragment)
	if err != nil {
		return err
	}
	m.caps = merged
	return nil
}

// ClientCapabilities returns the current capability JSON.
func (m *Manager) ClientCapabilities() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.caps
}

// StartAll attaches every registered server best-effort, in order.
// Servers whose executable is missing are skipped with a log line; the
// returned slice holds the sessions that attached.
func (m *Manager) StartAll(ctx context.Context) []Session {
	m.mu.Lock()
	configs := append([]ServerConfig(nil), m.configs...)
	caps := m.caps
	m.mu.Unlock()

	var attached []Session
	for _, cfg := range configs {
		select {
		case <-ctx.Done():
			m.log.Warn().Err(ctx.Err()).Msg("server attachment interrupted")
			return attached
		default:
		}

		path, err := m.lookPath(cfg.Command)
		if err != nil {
			m.log.Debug().Str("server", cfg.Name).Str("command", cfg.Command).
				Msg("server executable not found, skipping")
			continue
		}

		session := Session{
			ID:           uuid.NewString(),
			Server:       cfg,
			Capabilities: caps,
			Debounce:     m.attach.Debounce,
		}
		attached = append(attached, session)

		m.log.Info().Str("server", cfg.Name).Str("path", path).
			Dur("debounce", m.attach.Debounce).Msg("server attached")

		if m.attach.OnAttach != nil {
			m.attach.OnAttach(session)
		}
	}

	m.mu.Lock()
	m.sessions = attached
	m.mu.Unlock()
	return attached
}

// Sessions returns the attachments from the last StartAll.
func (m *Manager) Sessions() []Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Session(nil), m.sessions...)
}
