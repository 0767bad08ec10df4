package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("comprar pão\n"), "Título?", &out)
	require.NoError(t, err)
	assert.Equal(t, "comprar pão", got)
	assert.Contains(t, out.String(), "Título?")
}

func TestGetSimpleText_EOFKeepsPartialLine(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("sem newline"), "Título?", &out)
	require.NoError(t, err)
	assert.Equal(t, "sem newline", got)
}

func TestGetOptionalText(t *testing.T) {
	var out bytes.Buffer

	got, err := GetOptionalText(rdr("novo\n"), "Nome", "atual", &out)
	require.NoError(t, err)
	assert.Equal(t, "novo", got)

	// Empty input keeps the current value.
	got, err = GetOptionalText(rdr("\n"), "Nome", "atual", &out)
	require.NoError(t, err)
	assert.Equal(t, "atual", got)

	assert.Contains(t, out.String(), "[atual]")
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }

	var out bytes.Buffer
	got, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }

	var out bytes.Buffer
	_, err := GetPassword(&out)
	assert.Error(t, err)
}
