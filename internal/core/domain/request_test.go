package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vimasm/internal/core/domain"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected domain.Request
	}{
		{
			name:     "path and label",
			line:     "/a/b.c foo\n",
			expected: domain.Request{Path: "/a/b.c", Label: "foo"},
		},
		{
			name:     "bare path",
			line:     "/a/b.c\n",
			expected: domain.Request{Path: "/a/b.c"},
		},
		{
			name:     "no newline",
			line:     "/a/b.c main",
			expected: domain.Request{Path: "/a/b.c", Label: "main"},
		},
		{
			name:     "carriage return",
			line:     "/a/b.c main\r\n",
			expected: domain.Request{Path: "/a/b.c", Label: "main"},
		},
		{
			name:     "splits on first space only",
			line:     "/a/b.c foo bar\n",
			expected: domain.Request{Path: "/a/b.c", Label: "foo bar"},
		},
		{
			name:     "trailing space means whole buffer",
			line:     "/a/b.c \n",
			expected: domain.Request{Path: "/a/b.c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := domain.ParseRequest(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, req)
		})
	}
}

func TestParseRequest_Invalid(t *testing.T) {
	for _, line := range []string{"", "\n", " foo\n"} {
		_, err := domain.ParseRequest(line)
		require.ErrorIs(t, err, domain.ErrInvalidRequest, "line %q", line)
	}
}

func TestRequest_String(t *testing.T) {
	assert.Equal(t, "/a/b.c foo", domain.Request{Path: "/a/b.c", Label: "foo"}.String())
	assert.Equal(t, "/a/b.c", domain.Request{Path: "/a/b.c"}.String())
}
