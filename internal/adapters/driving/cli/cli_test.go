package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command against an isolated config directory and
// returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	originalConfigDir := configDir
	configDir = t.TempDir()
	defer func() { configDir = originalConfigDir }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sitechat version test-version-1.0.0")
}

func TestSettingsSetAndList(t *testing.T) {
	originalConfigDir := configDir
	configDir = t.TempDir()
	defer func() { configDir = originalConfigDir }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	rootCmd.SetArgs([]string{"settings", "set", "chunk_size", "4000"})
	require.NoError(t, rootCmd.Execute())

	buf.Reset()
	rootCmd.SetArgs([]string{"settings", "list"})
	defer rootCmd.SetArgs(nil)
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, buf.String(), "chunk_size = 4000")
}

func TestSettingsSet_ValueTypes(t *testing.T) {
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, int64(5), parseValue("5"))
	assert.Equal(t, 0.7, parseValue("0.7"))
	assert.Equal(t, "rod", parseValue("rod"))
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	_, err := execute(t, "ask")
	assert.Error(t, err)
}

func TestCrawlCmd_RequiresURL(t *testing.T) {
	_, err := execute(t, "crawl")
	assert.Error(t, err)
}

func TestIndexCmd_RequiresConfiguredSite(t *testing.T) {
	_, err := execute(t, "index", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no site configured")
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-a...wxyz", maskAPIKey("sk-abcdefghijklmnopqrstuvwxyz"))
}
