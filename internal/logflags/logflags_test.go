package logflags

import (
	"bytes"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset() {
	locator, walker, dumper, remote = false, false, false, false
	logOut = os.Stderr
}

func TestMakeLogger_withFlagFalse(t *testing.T) {
	defer reset()

	entry := makeLogger(false, logrus.Fields{"foo": "bar"})
	assert.Equal(t, logrus.ErrorLevel, entry.Logger.Level)
	assert.Equal(t, "bar", entry.Data["foo"])
}

func TestMakeLogger_withFlagTrue(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	entry := makeLogger(true, logrus.Fields{"layer": "test"})
	require.Equal(t, logrus.DebugLevel, entry.Logger.Level)

	entry.Debug("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "layer=test")
}

func TestSetup(t *testing.T) {
	defer reset()

	require.NoError(t, Setup(true, "walker,remote"))
	assert.True(t, Walker())
	assert.True(t, Remote())
	assert.False(t, Locator())
	assert.False(t, Dumper())
}

func TestSetup_allLayers(t *testing.T) {
	defer reset()

	require.NoError(t, Setup(true, ""))
	assert.True(t, Locator())
	assert.True(t, Walker())
	assert.True(t, Dumper())
	assert.True(t, Remote())
}

func TestSetup_errors(t *testing.T) {
	defer reset()

	assert.ErrorIs(t, Setup(false, "walker"), errLogstrWithoutLog)
	assert.Error(t, Setup(true, "bogus"))
}
