package asm_test

import (
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vimasm/internal/core/domain"
	"go.trai.ch/vimasm/internal/engine/asm"
)

func TestFilterText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "directive dropped",
			input: "\t.cfi_startproc\n",
			want:  "",
		},
		{
			name:  "instruction kept",
			input: "\tmovl %eax, %ebx\n",
			want:  "\tmovl %eax, %ebx\n",
		},
		{
			name:  "label separated",
			input: "main:\n\tret\n",
			want:  "\nmain:\n\tret\n",
		},
		{
			name:  "numeric local label kept",
			input: ".L2:\n\tjmp .L2\n",
			want:  "\n.L2:\n\tjmp .L2\n",
		},
		{
			name:  "named local label dropped",
			input: ".LFB0:\n\tret\n",
			want:  "\tret\n",
		},
		{
			name:  "blank lines dropped",
			input: "\n   \n\t\n\tnop\n",
			want:  "\tnop\n",
		},
		{
			name:  "unterminated last line",
			input: "\tnop\n\tret",
			want:  "\tnop\n\tret\n",
		},
		{
			name:  "carriage returns trimmed",
			input: "f:\r\n\tret\r\n",
			want:  "\nf:\n\tret\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := asm.FilterText([]byte(tt.input), 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestFilterText_Golden(t *testing.T) {
	input, err := os.ReadFile("testdata/gcc_intel.s")
	require.NoError(t, err)

	got, functions, err := asm.FilterText(input, 0)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "gcc_intel", got)
	assert.Equal(t, []string{"add", "loop"}, functions)
}

func TestFilterText_Idempotent(t *testing.T) {
	input, err := os.ReadFile("testdata/gcc_intel.s")
	require.NoError(t, err)

	once, _, err := asm.FilterText(input, 0)
	require.NoError(t, err)
	twice, _, err := asm.FilterText(once, 0)
	require.NoError(t, err)

	assert.Equal(t, string(once), string(twice))
}

func TestFilter_SplitWrites(t *testing.T) {
	buf := asm.NewBuffer(0)
	f := asm.NewFilter(buf)

	for _, chunk := range []string{"ma", "in:\n\tmo", "v eax, 1\n\t.cfi", "_endproc\n\tre", "t"} {
		n, err := f.Write([]byte(chunk))
		require.NoError(t, err)
		assert.Equal(t, len(chunk), n)
	}
	require.NoError(t, f.Close())

	assert.Equal(t, "\nmain:\n\tmov eax, 1\n\tret\n", string(buf.Bytes()))
}

func TestFilter_Overflow(t *testing.T) {
	f := asm.NewFilter(asm.NewBuffer(16))

	_, err := f.Write([]byte("\tmov eax, 1\n\tmov ebx, 2\n"))
	require.ErrorIs(t, err, domain.ErrBufferOverflow)
}

func TestFilter_OverflowOnUnterminatedLine(t *testing.T) {
	f := asm.NewFilter(asm.NewBuffer(8))

	_, err := f.Write([]byte("\tthis line has no newline and keeps going"))
	require.ErrorIs(t, err, domain.ErrBufferOverflow)
}
