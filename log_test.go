package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/go-textconv/internal/logenv"
)

func TestSetLogLevel(t *testing.T) {
	saved := log
	t.Cleanup(func() { log = saved })

	var buf bytes.Buffer
	require.NoError(t, setLogLevel("debug"))
	log.WithOutput(&buf).Debugf("step %d", 1)
	assert.Contains(t, buf.String(), `"severity":"DEBUG"`)
	assert.Contains(t, buf.String(), "step 1")

	buf.Reset()
	require.NoError(t, setLogLevel("WARN"))
	log.WithOutput(&buf).Infof("hidden")
	assert.Empty(t, buf.String())

	assert.Error(t, setLogLevel("loud"))
}

func TestLogEnvDefaults(t *testing.T) {
	assert.NotEmpty(t, os.Getenv("SERVICE"))
	assert.NotEmpty(t, os.Getenv("VERSION"))
	assert.NotEmpty(t, os.Getenv("LOG_LEVEL"))
	assert.Equal(t, "textconv", logenv.Service)
}

func TestLogCommand(t *testing.T) {
	saved := log
	t.Cleanup(func() { log = saved })

	var buf bytes.Buffer
	l, err := withLevel(saved.WithOutput(&buf), "debug")
	require.NoError(t, err)
	log = l

	logCommand("get_pipeline", true)
	logCommand("delete_step", false)

	assert.Contains(t, buf.String(), "command get_pipeline done")
	assert.Contains(t, buf.String(), "command delete_step failed")
}
