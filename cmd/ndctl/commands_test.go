package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ndkit/internal/format"
)

func TestCreateAndInfo(t *testing.T) {
	resetFlags()
	path := filepath.Join(t.TempDir(), "new.nd")
	createBigEndian = true
	createPools = []string{"blobs"}

	out, err := captureOutput(t, func() error { return runCreate([]string{path}) })
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	_, err = captureOutput(t, func() error { return runCreate([]string{path}) })
	assert.Error(t, err, "create must not overwrite")

	resetFlags()
	jsonOut = true
	out, err = captureOutput(t, func() error { return runInfo([]string{path}) })
	require.NoError(t, err)
	var info headerInfo
	decodeJSON(t, out, &info)
	assert.Equal(t, "BigEndian", info.ByteOrder)
	assert.EqualValues(t, 4096, info.ChunkSize)
	assert.True(t, info.Clean)
	assert.Contains(t, info.Pools, "1:misc")
	assert.Contains(t, info.Pools, "4:blobs")
}

func TestInfo_Text(t *testing.T) {
	path := demoStore(t)
	out, err := captureOutput(t, func() error { return runInfo([]string{path}) })
	require.NoError(t, err)
	assert.Contains(t, out, "Store Information:")
	assert.Contains(t, out, "LittleEndian")
	assert.Contains(t, out, "Header valid")
}

func TestInfo_RejectsGarbage(t *testing.T) {
	resetFlags()
	path := filepath.Join(t.TempDir(), "junk.nd")
	require.NoError(t, os.WriteFile(path, make([]byte, format.HeaderSize*2), 0o644))
	_, err := captureOutput(t, func() error { return runInfo([]string{path}) })
	assert.Error(t, err)
}

func TestStats_JSON(t *testing.T) {
	path := demoStore(t)
	jsonOut = true
	out, err := captureOutput(t, func() error { return runStats([]string{path}) })
	require.NoError(t, err)

	var rep statsReport
	decodeJSON(t, out, &rep)
	byName := map[string]poolReport{}
	for _, p := range rep.Pools {
		byName[p.Name] = p
	}
	// One plain annotation plus three type annotations survive the demo.
	assert.Equal(t, 4, byName["record"].LiveBlocks)
	assert.Equal(t, 4, byName["string"].LiveBlocks)
	assert.Equal(t, 2, byName["misc"].LiveBlocks, "paths of length 1 and 2")
	assert.Greater(t, rep.Total.FreeBytes, uint64(0))
}

func TestDump_Records(t *testing.T) {
	path := demoStore(t)
	dumpRecords = true
	dumpPool = "record"
	out, err := captureOutput(t, func() error { return runDump([]string{path}) })
	require.NoError(t, err)
	assert.Contains(t, out, "TypeAnnotation")
	assert.Contains(t, out, "typeName: Ljava/lang/FunctionalInterface;")
	assert.Contains(t, out, "target: 0x0134")
	assert.Contains(t, out, "path: 01 02")
	assert.NotContains(t, out, "(free)")
}

func TestDump_FreeJSON(t *testing.T) {
	path := demoStore(t)
	dumpFree = true
	jsonOut = true
	out, err := captureOutput(t, func() error { return runDump([]string{path}) })
	require.NoError(t, err)

	var entries []blockEntry
	decodeJSON(t, out, &entries)
	free := 0
	for _, e := range entries {
		if e.Free {
			free++
		}
	}
	assert.Greater(t, free, 0)
}

func TestVerify(t *testing.T) {
	path := demoStore(t)
	out, err := captureOutput(t, func() error { return runVerify([]string{path}) })
	require.NoError(t, err)
	assert.Contains(t, out, "Block chain consistent")
	assert.Contains(t, out, "4 records resolved")
}

func TestVerify_DetectsBrokenChain(t *testing.T) {
	path := demoStore(t)

	// Zero the first block header.
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	_, err = f.WriteAt(make([]byte, format.BlockHeaderSize), format.HeaderSize)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = captureOutput(t, func() error { return runVerify([]string{path}) })
	assert.Error(t, err)
}

func TestDemo_RejectsBadCount(t *testing.T) {
	resetFlags()
	demoCount = 0
	_, err := captureOutput(t, func() error {
		return runDemo([]string{filepath.Join(t.TempDir(), "x.nd")})
	})
	assert.Error(t, err)
}

func TestDemo_ClosesCleanStore(t *testing.T) {
	path := demoStore(t)

	// demo reports nothing until the close has flushed, so the header must
	// already be clean and the records must survive a fresh open.
	jsonOut = true
	out, err := captureOutput(t, func() error { return runInfo([]string{path}) })
	require.NoError(t, err)
	var info headerInfo
	decodeJSON(t, out, &info)
	assert.True(t, info.Clean)

	resetFlags()
	out, err = captureOutput(t, func() error { return runVerify([]string{path}) })
	require.NoError(t, err)
	assert.Contains(t, out, "4 records resolved")
}
