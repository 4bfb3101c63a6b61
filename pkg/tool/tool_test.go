package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputSchema_MissingRequired(t *testing.T) {
	schema := InputSchema{
		Properties: map[string]Property{
			"filename":  {Type: "string", Description: "File name"},
			"content":   {Type: "string", Description: "File content"},
			"overwrite": {Type: "boolean", Description: "Overwrite flag"},
		},
		Required: []string{"filename", "content"},
	}

	tests := []struct {
		name string
		args map[string]any
		want []string
	}{
		{
			name: "all present",
			args: map[string]any{"filename": "a.txt", "content": "hi"},
			want: []string{},
		},
		{
			name: "one missing",
			args: map[string]any{"filename": "a.txt"},
			want: []string{"content"},
		},
		{
			name: "all missing",
			args: map[string]any{},
			want: []string{"content", "filename"},
		},
		{
			name: "optional missing is fine",
			args: map[string]any{"filename": "a.txt", "content": "hi"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, schema.MissingRequired(tt.args))
		})
	}
}

func TestInputSchema_PropertyNames_Sorted(t *testing.T) {
	schema := InputSchema{
		Properties: map[string]Property{
			"zeta":  {Type: "string", Description: "z"},
			"alpha": {Type: "string", Description: "a"},
		},
	}

	assert.Equal(t, []string{"alpha", "zeta"}, schema.PropertyNames())
}

func TestNewFunc_Success(t *testing.T) {
	echo := NewFunc(Descriptor{Name: "echo", Description: "Echo"}, func(ctx context.Context, args map[string]any) (any, error) {
		return args["message"], nil
	})

	result := echo.Execute(context.Background(), map[string]any{"message": "hello"})
	require.True(t, result.Success)
	assert.Equal(t, "hello", result.Output)
	assert.NotNil(t, result.Metadata)
}

func TestNewFunc_HandlerErrorBecomesLogicalFailure(t *testing.T) {
	failing := NewFunc(Descriptor{Name: "failing", Description: "Always fails"}, func(ctx context.Context, args map[string]any) (any, error) {
		return nil, errors.New("disk full")
	})

	result := failing.Execute(context.Background(), map[string]any{})
	require.False(t, result.Success)
	assert.Equal(t, "disk full", result.Error)
	assert.Nil(t, result.Output)
}

func TestResult_WithMeta(t *testing.T) {
	result := Succeed("out").WithMeta("size_bytes", 3)

	assert.Equal(t, 3, result.Metadata["size_bytes"])

	// The original metadata map is not mutated.
	base := Succeed("out")
	_ = base.WithMeta("k", "v")
	assert.NotContains(t, base.Metadata, "k")
}
