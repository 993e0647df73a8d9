package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/openenc/internal/debug"
	"github.com/standardbeagle/openenc/internal/encoding"
	encerrors "github.com/standardbeagle/openenc/internal/errors"
)

const sampleUUID = "03d73148-e422-4c57-a25b-bd4be247ef33"

// runApp runs the CLI in-process with an isolated HOME and returns what it
// printed.
func runApp(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader(stdin)
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"openenc"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestB64Encode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"text", []string{"b64", "encode", "foo", "fo", "f"}, "Zm9v\nZm8\nZg\n"},
		{"hex", []string{"b64", "encode", "--hex", "666F6F", "ff"}, "Zm9v\n_w\n"},
		{"utf16", []string{"b64", "encode", "--utf16", "a"}, "AGE\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := runApp(t, "", tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}
}

func TestB64Encode_HexAndUTF16Conflict(t *testing.T) {
	_, _, err := runApp(t, "", "b64", "encode", "--hex", "--utf16", "00")
	assert.Error(t, err)
}

func TestB64Encode_Stdin(t *testing.T) {
	out, _, err := runApp(t, "foo\r\n\nbar\n", "b64", "encode")
	require.NoError(t, err)
	assert.Equal(t, "Zm9v\nYmFy\n", out)

	out, _, err = runApp(t, "foo\n", "b64", "encode", "-")
	require.NoError(t, err)
	assert.Equal(t, "Zm9v\n", out)
}

func TestB64Decode(t *testing.T) {
	out, _, err := runApp(t, "", "b64", "decode", "Zm9v", "YmFy")
	require.NoError(t, err)
	assert.Equal(t, "foo\nbar\n", out)

	out, _, err = runApp(t, "", "b64", "decode", "--hex", "Zm9v")
	require.NoError(t, err)
	assert.Equal(t, "666F6F\n", out)

	// 0xFF is not UTF-8
	out, _, err = runApp(t, "", "b64", "decode", "_w")
	require.NoError(t, err)
	assert.Equal(t, "\uFFFD\n", out)
}

func TestB64Decode_FailFast(t *testing.T) {
	out, _, err := runApp(t, "", "-j", "1", "b64", "decode", "Zm9v!")
	require.ErrorIs(t, err, encoding.ErrInvalidChar)
	assert.Empty(t, out)

	var item *encerrors.ItemError
	require.ErrorAs(t, err, &item)
	assert.Equal(t, 0, item.Index)
}

func TestB64Decode_KeepGoing(t *testing.T) {
	out, _, err := runApp(t, "", "--keep-going", "b64", "decode", "Zm9v", "Zm9v!", "YmFy", "Zh")
	assert.Equal(t, "foo\nbar\n", out)

	var multi *encerrors.MultiError
	require.ErrorAs(t, err, &multi)
	assert.Len(t, multi.Errors, 2)
	assert.ErrorIs(t, err, encoding.ErrInvalidChar)
	assert.ErrorIs(t, err, encoding.ErrInvalidPadding)
}

func TestB64Check(t *testing.T) {
	out, _, err := runApp(t, "", "b64", "check", "Zm9v", "Zm8")
	require.NoError(t, err)
	assert.Equal(t, "Zm9v\tok\nZm8\tok\n", out)

	// length 1 mod 4 can never be produced by the encoder
	for _, in := range []string{"A", "Zm9vA"} {
		out, _, err = runApp(t, "", "b64", "check", in)
		var exitErr cli.ExitCoder
		require.ErrorAs(t, err, &exitErr, in)
		assert.Equal(t, in+"\t"+encoding.ErrInvalidPadding.Error()+"\n", out)
	}

	out, _, err = runApp(t, "", "b64", "check", "Zm9v", "Zh")
	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.True(t, strings.HasPrefix(out, "Zm9v\tok\nZh\t"))
}

func TestB64Encode_Glob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("foo"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("bar"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.bin"), []byte("f"), 0644))

	out, _, err := runApp(t, "", "b64", "encode", "--root", dir, "--glob", "**/*", "--exclude", "**/*.bin")
	require.NoError(t, err)
	assert.Equal(t, "a.txt\tZm9v\n"+filepath.Join("sub", "b.txt")+"\tYmFy\n", out)
}

func TestUUIDConversions(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"compact", []string{"uuid", "compact", sampleUUID}, "A9cxSOQiTFeJbvUviR-8z\n"},
		{"canonical", []string{"uuid", "canonical", "A9cxSOQiTFeJbvUviR-8z"}, sampleUUID + "\n"},
		{"uri", []string{"uuid", "uri", "A9cxSOQiTFeJbvUviR-8z"}, "urn:uuid:" + sampleUUID + "\n"},
		{"from urn", []string{"uuid", "compact", "urn:uuid:" + sampleUUID}, "A9cxSOQiTFeJbvUviR-8z\n"},
		{"format default", []string{"uuid", "format", sampleUUID}, "A9cxSOQiTFeJbvUviR-8z\n"},
		{"format flag", []string{"--format", "urn", "uuid", "format", "A9cxSOQiTFeJbvUviR-8z"}, "urn:uuid:" + sampleUUID + "\n"},
		{"name", []string{"-f", "canonical", "uuid", "name", "http://www.example.com/"}, "fcde3c85-2270-590f-9e7c-ee003d65e0e2\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := runApp(t, "", tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}
}

func TestUUIDName_Options(t *testing.T) {
	out, _, err := runApp(t, "", "-f", "canonical", "uuid", "name", "--namespace", "6ba7b811-9dad-11d1-80b4-00c04fd430c8", "--hash", "SHA1", "http://www.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "fcde3c85-2270-590f-9e7c-ee003d65e0e2\n", out)

	out, _, err = runApp(t, "", "-f", "canonical", "uuid", "name", "--hash", "sha256", "http://www.example.com/")
	require.NoError(t, err)
	u, err := uuid.Parse(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), u.Version())
	assert.NotEqual(t, "fcde3c85-2270-590f-9e7c-ee003d65e0e2", u.String())

	out, _, err = runApp(t, "", "-f", "canonical", "uuid", "name", "--namespace", uuid.NameSpaceDNS.String(), "--hash", "md5", "www.example.com")
	require.NoError(t, err)
	assert.Equal(t, uuid.NewMD5(uuid.NameSpaceDNS, []byte("www.example.com")).String()+"\n", out)

	_, _, err = runApp(t, "", "uuid", "name", "--hash", "sha265", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "sha256"`)

	_, _, err = runApp(t, "", "uuid", "name", "--namespace", "nope", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "namespace:")
}

func TestUUIDNew(t *testing.T) {
	out, _, err := runApp(t, "", "--format", "canonical", "uuid", "new", "--count", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		u, err := uuid.Parse(line)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), u.Version())
	}

	_, _, err = runApp(t, "", "uuid", "new", "--count", "0")
	assert.Error(t, err)
}

func TestUUIDCheck(t *testing.T) {
	out, _, err := runApp(t, "", "uuid", "check", sampleUUID, "A9cxSOQiTFeJbvUviR-8z")
	require.NoError(t, err)
	assert.Equal(t, sampleUUID+"\tok\nA9cxSOQiTFeJbvUviR-8z\tok\n", out)

	_, _, err = runApp(t, "", "uuid", "check", "abc")
	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
}

func TestPct(t *testing.T) {
	out, _, err := runApp(t, "", "pct", "encode", "a b/c?", "α")
	require.NoError(t, err)
	assert.Equal(t, "a%20b%2Fc%3F\nα\n", out)

	out, _, err = runApp(t, "", "pct", "decode", "a+b%zz", "%CE%B1")
	require.NoError(t, err)
	assert.Equal(t, "a b\uFFFDz\nα\n", out)

	_, _, err = runApp(t, "", "pct", "encode", "a\xffb")
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "openenc.kdl")
	require.NoError(t, os.WriteFile(path, []byte("uuid {\n    format \"urn\"\n}\n"), 0644))

	out, _, err := runApp(t, "", "--config", path, "uuid", "format", sampleUUID)
	require.NoError(t, err)
	assert.Equal(t, "urn:uuid:"+sampleUUID+"\n", out)

	// flags win over the file
	out, _, err = runApp(t, "", "-c", path, "-f", "canonical", "uuid", "format", "A9cxSOQiTFeJbvUviR-8z")
	require.NoError(t, err)
	assert.Equal(t, sampleUUID+"\n", out)
}

func TestConfigErrors(t *testing.T) {
	_, _, err := runApp(t, "", "--format", "urm", "uuid", "format", sampleUUID)
	var cfgErr *encerrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)

	_, _, err = runApp(t, "", "--config", filepath.Join(t.TempDir(), "missing.kdl"), "uuid", "new")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDebugFlag(t *testing.T) {
	t.Cleanup(func() {
		debug.SetEnabled(false)
		debug.SetDebugOutput(nil)
	})

	_, stderr, err := runApp(t, "", "--debug", "b64", "encode", "foo")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[DEBUG:CONFIG] ")
	assert.Contains(t, stderr, "[DEBUG:BATCH] ")
}

func TestCommandNames(t *testing.T) {
	names := commandNames(newApp().Commands)
	assert.ElementsMatch(t, []string{"b64", "uuid", "pct", "mcp"}, names)
}
