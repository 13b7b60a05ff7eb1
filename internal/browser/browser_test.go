package browser

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandPerPlatform(t *testing.T) {
	const u = "https://app.dappos.io/DappBuilder?uniqueId=a&dappId=b"

	name, args := Command("darwin", u)
	assert.Equal(t, "open", name)
	assert.Equal(t, []string{u}, args)

	name, args = Command("windows", u)
	assert.Equal(t, "cmd", name)
	assert.Equal(t, []string{"/c", "start", u}, args)

	name, args = Command("linux", u)
	assert.Equal(t, "xdg-open", name)
	assert.Equal(t, []string{u}, args)
}

func TestSystemOpen(t *testing.T) {
	var gotName string
	var gotArgs []string
	s := &System{goos: "linux", start: func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}}

	require.NoError(t, s.Open("https://x.test"))
	assert.Equal(t, "xdg-open", gotName)
	assert.Equal(t, []string{"https://x.test"}, gotArgs)
}

func TestSystemOpenError(t *testing.T) {
	s := &System{goos: "linux", start: func(string, ...string) error {
		return errors.New("executable file not found")
	}}
	err := s.Open("https://x.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xdg-open")
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Printer{W: &buf}.Open("https://x.test"))
	assert.Equal(t, "Open the builder at: https://x.test\n", buf.String())
}

func TestFallback(t *testing.T) {
	var buf bytes.Buffer
	broken := &System{goos: "linux", start: func(string, ...string) error { return errors.New("no display") }}

	f := Fallback{Primary: broken, Secondary: Printer{W: &buf}}
	require.NoError(t, f.Open("https://x.test"))
	assert.Contains(t, buf.String(), "https://x.test")
}
