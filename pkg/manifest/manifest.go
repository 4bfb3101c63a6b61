// Package manifest loads command-backed tools from JSON files in a
// directory. A manifest maps a tool descriptor onto an external command:
// arguments are delivered to the process as JSON on stdin and its stdout
// becomes the tool output. Combined with the watcher this is the
// hot-reload path that ForceRegister exists for.
package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/halim/orin/pkg/tool"
)

const defaultCommandTimeout = 60 * time.Second

// Manifest describes one command-backed tool.
type Manifest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	InputSchema tool.InputSchema `json:"input_schema"`
	Command     []string         `json:"command"`
	TimeoutSecs int              `json:"timeout_seconds,omitempty"`
}

// Load reads and validates a single manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", filepath.Base(path), err)
	}

	if m.Name == "" {
		return nil, fmt.Errorf("manifest %s has no name", filepath.Base(path))
	}
	if m.Description == "" {
		return nil, fmt.Errorf("manifest %q has no description", m.Name)
	}
	if len(m.Command) == 0 {
		return nil, fmt.Errorf("manifest %q has no command", m.Name)
	}
	return &m, nil
}

// Tool builds the registrable tool backed by the manifest's command.
func (m *Manifest) Tool() tool.Tool {
	return tool.NewFunc(tool.Descriptor{
		Name:        m.Name,
		Description: m.Description,
		InputSchema: m.InputSchema,
	}, m.run)
}

func (m *Manifest) run(ctx context.Context, args map[string]any) (any, error) {
	timeout := defaultCommandTimeout
	if m.TimeoutSecs > 0 {
		timeout = time.Duration(m.TimeoutSecs) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode arguments: %w", err)
	}

	cmd := exec.CommandContext(ctx, m.Command[0], m.Command[1:]...)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		if detail != "" {
			return nil, fmt.Errorf("command failed: %v: %s", err, detail)
		}
		return nil, fmt.Errorf("command failed: %v", err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Loader reads every manifest in a directory.
type Loader struct {
	dir    string
	logger zerolog.Logger
}

// NewLoader creates a loader for a manifest directory.
func NewLoader(dir string, logger zerolog.Logger) *Loader {
	return &Loader{dir: dir, logger: logger}
}

// LoadAll parses every *.json file in the directory. Invalid manifests are
// logged and skipped so one broken file cannot take down the rest.
func (l *Loader) LoadAll() ([]*Manifest, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest directory: %w", err)
	}

	manifests := make([]*Manifest, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		m, err := Load(filepath.Join(l.dir, entry.Name()))
		if err != nil {
			l.logger.Warn().Err(err).Str("file", entry.Name()).Msg("Skipping invalid manifest")
			continue
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

// RegisterAll force-registers every valid manifest tool, returning how
// many were registered.
func (l *Loader) RegisterAll(registry *tool.Registry) (int, error) {
	manifests, err := l.LoadAll()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range manifests {
		if err := registry.ForceRegister(m.Tool()); err != nil {
			l.logger.Warn().Err(err).Str("tool", m.Name).Msg("Failed to register manifest tool")
			continue
		}
		count++
	}
	return count, nil
}
