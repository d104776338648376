// Package credentials resolves the inference API key at call time and exposes
// the optional host capability for selecting a key.
package credentials

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultEnvVars are consulted in order after the selected key file.
var DefaultEnvVars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY"}

// Resolver reads the key fresh on every call so a key selected through the
// bridge is picked up by the very next request.
type Resolver struct {
	KeyFile string
	EnvVars []string
	Getenv  func(string) string
}

// NewResolver returns a Resolver using the process environment.
func NewResolver(keyFile string) *Resolver {
	return &Resolver{KeyFile: keyFile, EnvVars: DefaultEnvVars, Getenv: os.Getenv}
}

// APIKey returns the selected key if one was stored, otherwise the first
// non-empty environment value. Empty means no credential is available.
func (r *Resolver) APIKey() string {
	if k := readKeyFile(r.KeyFile); k != "" {
		return k
	}
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, name := range r.EnvVars {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

func readKeyFile(path string) string {
	if path == "" {
		return ""
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// Bridge is the optional host-provided key selection capability. A nil Bridge
// means the capability is absent, which is a normal condition.
type Bridge interface {
	HasSelectedAPIKey(ctx context.Context) (bool, error)
	OpenSelectKey(ctx context.Context) error
}

// CommandRunner executes a shell command and returns its stdout.
type CommandRunner func(ctx context.Context, command string) ([]byte, error)

// CommandBridge selects a key by running a host command (for example a
// password manager lookup) and storing its output in the key file.
type CommandBridge struct {
	Command string
	KeyFile string
	Run     CommandRunner
}

// NewCommandBridge returns nil when no command is configured.
func NewCommandBridge(command, keyFile string) Bridge {
	if strings.TrimSpace(command) == "" || keyFile == "" {
		return nil
	}
	return &CommandBridge{Command: command, KeyFile: keyFile, Run: runShell}
}

func runShell(ctx context.Context, command string) ([]byte, error) {
	return exec.CommandContext(ctx, "sh", "-c", command).Output()
}

// HasSelectedAPIKey reports whether a key has been stored in the key file.
func (b *CommandBridge) HasSelectedAPIKey(ctx context.Context) (bool, error) {
	info, err := os.Stat(b.KeyFile)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Size() > 0 && readKeyFile(b.KeyFile) != "", nil
}

// OpenSelectKey runs the selection command and persists the key it prints.
func (b *CommandBridge) OpenSelectKey(ctx context.Context) error {
	run := b.Run
	if run == nil {
		run = runShell
	}
	out, err := run(ctx, b.Command)
	if err != nil {
		return fmt.Errorf("key selection command: %w", err)
	}
	key := strings.TrimSpace(string(out))
	if key == "" {
		return fmt.Errorf("key selection command printed no key")
	}
	if err := os.MkdirAll(filepath.Dir(b.KeyFile), 0o700); err != nil {
		return fmt.Errorf("create key dir: %w", err)
	}
	if err := os.WriteFile(b.KeyFile, []byte(key+"\n"), 0o600); err != nil {
		return fmt.Errorf("store key: %w", err)
	}
	return nil
}
