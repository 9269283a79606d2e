package fusionService

import (
	"os"
	"path/filepath"
	"testing"

	"ProjectFusion/internal/api/fusion"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOutputPath(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.jpg")
	target := filepath.Join(dir, "target.png")
	require.NoError(t, os.WriteFile(source, []byte("s"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("t"), 0o644))

	tests := []struct {
		name    string
		source  string
		target  string
		output  string
		want    string
		wantErr error
	}{
		{"directory output", source, target, dir, filepath.Join(dir, "source-target.png"), nil},
		{"directory output without source", "", target, dir, filepath.Join(dir, "target.png"), nil},
		{"file output takes target extension", source, target, filepath.Join(dir, "result.jpg"), filepath.Join(dir, "result.png"), nil},
		{"file output without extension", source, target, filepath.Join(dir, "result"), "", fusion.ErrInvalidOutputPath},
		{"missing output directory", source, target, filepath.Join(dir, "nope", "result.png"), "", fusion.ErrInvalidOutputPath},
		{"empty output", source, target, "", "", fusion.ErrInvalidOutputPath},
		{"target not a file", source, filepath.Join(dir, "missing.png"), "anything", "anything", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeOutputPath(tt.source, tt.target, tt.output)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
