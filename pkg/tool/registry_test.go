package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTool(name string) Tool {
	return NewFunc(Descriptor{
		Name:        name,
		Description: "A test tool",
		InputSchema: InputSchema{
			Properties: map[string]Property{
				"input": {Type: "string", Description: "Input value"},
			},
			Required: []string{"input"},
		},
	}, func(ctx context.Context, args map[string]any) (any, error) {
		return args["input"], nil
	})
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	echo := newTestTool("echo")

	err := r.Register(echo)
	require.NoError(t, err)

	got, err := r.Get("echo")
	require.NoError(t, err)
	assert.Same(t, echo, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Register_EmptyName(t *testing.T) {
	r := NewRegistry()

	err := r.Register(newTestTool(""))
	require.Error(t, err)

	var invalidErr *InvalidToolError
	assert.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newTestTool("echo")))

	err := r.Register(newTestTool("echo"))
	require.Error(t, err)

	var dupErr *DuplicateNameError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "echo", dupErr.Name)
}

func TestRegistry_ForceRegister_ReplacesExisting(t *testing.T) {
	r := NewRegistry()
	first := newTestTool("echo")
	second := newTestTool("echo")

	require.NoError(t, r.Register(first))
	require.NoError(t, r.ForceRegister(second))

	got, err := r.Get("echo")
	require.NoError(t, err)
	assert.Same(t, second, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ForceRegister_EmptyName(t *testing.T) {
	r := NewRegistry()

	err := r.ForceRegister(newTestTool(""))
	require.Error(t, err)

	var invalidErr *InvalidToolError
	assert.ErrorAs(t, err, &invalidErr)
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newTestTool("echo")))

	require.NoError(t, r.Unregister("echo"))
	assert.Equal(t, 0, r.Len())

	err := r.Unregister("echo")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestRegistry_Get_NotFound(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newTestTool("alpha")))
	require.NoError(t, r.Register(newTestTool("beta")))

	_, err := r.Get("missing")
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Name)
	assert.Equal(t, []string{"alpha", "beta"}, notFound.Available)
	assert.Contains(t, err.Error(), "missing")
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	echo := newTestTool("echo")
	require.NoError(t, r.Register(echo))

	got, ok := r.Lookup("echo")
	assert.True(t, ok)
	assert.Same(t, echo, got)

	got, ok = r.Lookup("missing")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRegistry_ListNames_Sorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(newTestTool(name)))
	}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.ListNames())
}

func TestRegistry_ListMetadata_SameOrderAsNames(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"beta", "alpha"} {
		require.NoError(t, r.Register(newTestTool(name)))
	}

	metadata := r.ListMetadata()
	require.Len(t, metadata, 2)
	assert.Equal(t, "alpha", metadata[0].Name)
	assert.Equal(t, "beta", metadata[1].Name)
}

func TestRegistry_ValidateArgs(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newTestTool("echo")))

	assert.NoError(t, r.ValidateArgs("echo", map[string]any{"input": "hello"}))
	assert.Error(t, r.ValidateArgs("echo", map[string]any{"input": 42}))

	// Unknown names have no compiled schema and pass through.
	assert.NoError(t, r.ValidateArgs("missing", map[string]any{}))
}
