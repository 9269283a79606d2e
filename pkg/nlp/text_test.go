package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "  a  photo\tof\n a cat ", "a photo of a cat"},
		{"composes decomposed accents", "cafe\u0301", "caf\u00e9"},
		{"drops control characters", "hello\x00world", "helloworld"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "cafe", Fold("Café"))
	assert.Equal(t, "more than 70", Fold("More Than 70"))
	assert.Equal(t, "unicode", Fold("\u00dcn\u00efc\u00f6d\u00e9"))
}
