package prompter

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptStringSharesBuffer(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("next\n  prev  \nq"), &out)

	for _, want := range []string{"next", "prev", "q"} {
		got, err := p.PromptString("> ")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := p.PromptString("> ")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "> > > > ", out.String())
}

func TestPromptConfirm(t *testing.T) {
	p := New(strings.NewReader("Y\nno\n"), io.Discard)

	ok, err := p.PromptConfirm("Post?")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.PromptConfirm("Post?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPromptInt(t *testing.T) {
	p := New(strings.NewReader("4\nabc\n99\n"), io.Discard)

	n, err := p.PromptInt("Page: ", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = p.PromptInt("Page: ", 1, 10)
	assert.Error(t, err)

	_, err = p.PromptInt("Page: ", 1, 10)
	assert.Error(t, err)
}

func TestPromptMultilineString(t *testing.T) {
	p := New(strings.NewReader("line one\nline two\n\nignored\n"), io.Discard)

	got, err := p.PromptMultilineString("Message", 10)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", got)

	rest, err := p.PromptString("")
	require.NoError(t, err)
	assert.Equal(t, "ignored", rest)
}

func TestPromptMultilineStringMaxLines(t *testing.T) {
	p := New(strings.NewReader("a\nb\nc\n"), io.Discard)

	got, err := p.PromptMultilineString("Message", 2)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)
}
