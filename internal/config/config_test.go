package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/wiztype/remote"
	"github.com/skdltmxn/wiztype/rtti"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{KeyProcess, KeyEncoding, KeyMaxVectorSize, KeySignature, KeyPayloadNodes} {
		t.Setenv(envKey(key), "")
	}
}

func envKey(key string) string {
	b := []byte("WIZTYPE_" + key)
	for i, c := range b {
		switch {
		case c == '-':
			b[i] = '_'
		case c >= 'a' && c <= 'z':
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func TestDefaults(t *testing.T) {
	isolate(t)
	v := viper.New()

	used, err := Init(v, "")
	require.NoError(t, err)
	assert.Empty(t, used)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, DefaultProcess, cfg.Process)
	assert.Equal(t, rtti.DefaultOptions(), cfg.Options)
}

func TestEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("WIZTYPE_MAX_VECTOR_SIZE", "42")
	t.Setenv("WIZTYPE_ENCODING", "latin1")
	t.Setenv("WIZTYPE_PAYLOAD_NODES", "internal")
	v := viper.New()

	_, err := Init(v, "")
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Options.MaxVector)
	assert.Equal(t, "latin1", cfg.Options.Encoding)
	assert.Equal(t, rtti.InternalPayload, cfg.Options.Payload)
}

func TestConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "wiztype.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"process: Test.exe\n"+
			"signature: \"48 8B ?? ?? C3\"\n"+
			"lea-offset: 0x40\n"+
			"call-length: 6\n"), 0o644))
	v := viper.New()

	used, err := Init(v, path)
	require.NoError(t, err)
	assert.Equal(t, path, used)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "Test.exe", cfg.Process)
	assert.Equal(t, "48 8B ?? ?? C3", cfg.Options.Signature)
	assert.EqualValues(t, 0x40, cfg.Options.LeaOffset)
	assert.EqualValues(t, 6, cfg.Options.CallLength)
	assert.EqualValues(t, 3, cfg.Options.LeaDispOffset)
}

func TestDefaultDirFile(t *testing.T) {
	isolate(t)
	dir, err := DefaultDir()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("max-vector-size: 7\n"), 0o644))
	v := viper.New()

	used, err := Init(v, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), used)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Options.MaxVector)
}

func TestMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Init(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadRejects(t *testing.T) {
	for _, tc := range []struct {
		key, value string
		is         error
	}{
		{KeyProcess, "", nil},
		{KeyMaxVectorSize, "0", nil},
		{KeyEncoding, "no-such-encoding", nil},
		{KeySignature, "?? E8", remote.ErrInvalidPattern},
		{KeyPayloadNodes, "root", nil},
	} {
		t.Run(tc.key, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tc.key, tc.value)

			_, err := Load(v)
			require.Error(t, err)
			if tc.is != nil {
				require.ErrorIs(t, err, tc.is)
			}
		})
	}
}
