// Package coretools registers the baseline filesystem and web tools that
// ship with the agent. Paths are confined to a configured workspace root
// so an instruction cannot write outside it.
package coretools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/halim/orin/pkg/tool"
)

const defaultMaxReadBytes = 256 * 1024

// Options configures core tool registration.
type Options struct {
	// WorkspaceRoot confines relative paths. Empty means the current
	// working directory is used as-is without confinement.
	WorkspaceRoot string

	// MaxReadBytes caps file_read output. Zero means the default cap.
	MaxReadBytes int64

	// HTTPTimeoutSecs bounds web_fetch requests. Zero means the default.
	HTTPTimeoutSecs int
}

// RegisterCoreTools registers the built-in tools on the registry.
func RegisterCoreTools(registry *tool.Registry, opts Options) error {
	tools := []tool.Tool{
		newFileCreation(opts),
		newFileRead(opts),
		newWebFetch(opts),
	}
	for _, t := range tools {
		if err := registry.Register(t); err != nil {
			return fmt.Errorf("failed to register tool %s: %w", t.Metadata().Name, err)
		}
	}
	return nil
}

// fileCreation writes a text file, refusing to clobber existing files
// unless told to overwrite.
type fileCreation struct {
	tool.Base
	root string
}

func newFileCreation(opts Options) *fileCreation {
	return &fileCreation{
		root: opts.WorkspaceRoot,
		Base: tool.Base{Desc: tool.Descriptor{
			Name: "file_creation",
			Description: "Creates a new text file with the specified filename and content. " +
				"Returns the absolute path of the created file.",
			InputSchema: tool.InputSchema{
				Required: []string{"filename", "content"},
				Properties: map[string]tool.Property{
					"filename": {
						Type:        "string",
						Description: "Name or relative path of the file to create.",
					},
					"content": {
						Type:        "string",
						Description: "Text content to write into the file.",
					},
					"overwrite": {
						Type:        "boolean",
						Description: "Whether to overwrite an existing file. Defaults to false.",
						Default:     false,
					},
				},
			},
		}},
	}
}

func (t *fileCreation) Execute(ctx context.Context, args map[string]any) tool.Result {
	if missing := t.ValidateInputs(args); len(missing) > 0 {
		return tool.Failf("Missing required input(s): %s", strings.Join(missing, ", "))
	}

	filename, _ := args["filename"].(string)
	content, _ := args["content"].(string)
	overwrite, _ := args["overwrite"].(bool)

	if strings.TrimSpace(filename) == "" {
		return tool.Failf("'filename' must not be empty.")
	}

	path, err := resolvePath(t.root, filename)
	if err != nil {
		return tool.Failf("%v", err)
	}

	if _, statErr := os.Stat(path); statErr == nil && !overwrite {
		return tool.Failf("File already exists: %s. Pass overwrite=true to replace it.", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return tool.Failf("Could not create parent directories: %v", err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return tool.Failf("Failed to write file: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return tool.Failf("Failed to stat written file: %v", err)
	}

	return tool.Succeed(path).
		WithMeta("filename", filepath.Base(path)).
		WithMeta("absolute_path", path).
		WithMeta("size_bytes", info.Size()).
		WithMeta("encoding", "utf-8")
}

// fileRead returns the contents of a text file, capped in size.
type fileRead struct {
	tool.Base
	root     string
	maxBytes int64
}

func newFileRead(opts Options) *fileRead {
	maxBytes := opts.MaxReadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxReadBytes
	}
	return &fileRead{
		root:     opts.WorkspaceRoot,
		maxBytes: maxBytes,
		Base: tool.Base{Desc: tool.Descriptor{
			Name:        "file_read",
			Description: "Reads a text file and returns its contents. Large files are truncated.",
			InputSchema: tool.InputSchema{
				Required: []string{"filename"},
				Properties: map[string]tool.Property{
					"filename": {
						Type:        "string",
						Description: "Name or relative path of the file to read.",
					},
				},
			},
		}},
	}
}

func (t *fileRead) Execute(ctx context.Context, args map[string]any) tool.Result {
	if missing := t.ValidateInputs(args); len(missing) > 0 {
		return tool.Failf("Missing required input(s): %s", strings.Join(missing, ", "))
	}

	filename, _ := args["filename"].(string)
	if strings.TrimSpace(filename) == "" {
		return tool.Failf("'filename' must not be empty.")
	}

	path, err := resolvePath(t.root, filename)
	if err != nil {
		return tool.Failf("%v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tool.Failf("Failed to read file: %v", err)
	}

	truncated := false
	if int64(len(data)) > t.maxBytes {
		data = data[:t.maxBytes]
		truncated = true
	}

	return tool.Succeed(string(data)).
		WithMeta("absolute_path", path).
		WithMeta("size_bytes", len(data)).
		WithMeta("truncated", truncated)
}

// resolvePath makes name absolute and, when a root is configured, confines
// it to that root so relative paths cannot traverse out of the workspace.
func resolvePath(root, name string) (string, error) {
	if root == "" {
		return filepath.Abs(name)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("could not resolve workspace root: %w", err)
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(absRoot, path)
	}
	path = filepath.Clean(path)

	if path != absRoot && !strings.HasPrefix(path, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the workspace root", name)
	}
	return path, nil
}
