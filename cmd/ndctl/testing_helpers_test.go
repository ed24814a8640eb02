package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String(), fnErr
}

// resetFlags restores every flag to its default between tests.
func resetFlags() {
	verbose, quiet, jsonOut, noColor = false, false, false, true
	createChunkSize, createBigEndian, createPools = 4096, false, nil
	dumpPool, dumpFree, dumpRecords = "", false, false
	demoCount = 3
}

// demoStore writes a demo store into a temp dir and returns its path.
func demoStore(t *testing.T) string {
	t.Helper()
	resetFlags()
	path := filepath.Join(t.TempDir(), "demo.nd")
	_, err := captureOutput(t, func() error { return runDemo([]string{path}) })
	require.NoError(t, err)
	return path
}

func decodeJSON(t *testing.T, out string, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(out), v), "output: %s", out)
}
