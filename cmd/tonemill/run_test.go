package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonemill/tonemill/internal/config"
	"github.com/tonemill/tonemill/internal/format"
	"github.com/tonemill/tonemill/internal/history"
	"github.com/tonemill/tonemill/internal/scan"
)

// writeWAVTree writes valid WAVE files under dir at the given relative
// paths, so runs can execute for real without any encoder binaries.
func writeWAVTree(t *testing.T, dir string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(dir, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		f, err := os.Create(full)
		require.NoError(t, err)
		enc := wav.NewEncoder(f, 8000, 16, 1, 1)
		require.NoError(t, enc.Write(&audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
			Data:           []int{0, 200, 0, -200},
			SourceBitDepth: 16,
		}))
		require.NoError(t, enc.Close())
		require.NoError(t, f.Close())
	}
}

func waveOptions(t *testing.T, in, out string) config.Options {
	t.Helper()
	opts := config.Defaults()
	opts.InPath = in
	opts.OutFolder = out
	opts.Source = format.Wave
	opts.Target = format.Wave
	opts.Recursive = true
	opts.Verbosity = config.VerbositySilent
	opts.HistoryEnabled = false
	require.Empty(t, opts.Validate())
	return opts
}

func TestRun_WaveToWaveEndToEnd(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeWAVTree(t, src, "a.wav", "sub/b.wav")

	var buf bytes.Buffer
	err := run(context.Background(), waveOptions(t, src, out), &buf)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "a.wav"))
	assert.FileExists(t, filepath.Join(out, "sub", "b.wav"))
	assert.Contains(t, buf.String(), "2 converted")
}

func TestRun_SecondRunSkipsEverything(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeWAVTree(t, src, "a.wav", "b.wav")
	opts := waveOptions(t, src, out)

	var first bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &first))
	assert.Contains(t, first.String(), "2 converted")

	// Idempotence: without overwrite the rerun skips, it does not fail.
	var second bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &second))
	assert.Contains(t, second.String(), "0 converted, 2 skipped, 0 failed")
}

func TestRun_NoMatchesReportsCleanly(t *testing.T) {
	src := t.TempDir()
	var buf bytes.Buffer
	err := run(context.Background(), waveOptions(t, src, t.TempDir()), &buf)
	require.ErrorIs(t, err, scan.ErrNoMatches)
	assert.Contains(t, buf.String(), "nothing to do")
}

func TestRun_MissingInputPath(t *testing.T) {
	opts := waveOptions(t, filepath.Join(t.TempDir(), "gone"), t.TempDir())
	var buf bytes.Buffer
	err := run(context.Background(), opts, &buf)
	require.ErrorIs(t, err, scan.ErrNotFound)
}

func TestRun_DryRunExecutesNothing(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeWAVTree(t, src, "a.wav", "sub/b.wav")

	opts := waveOptions(t, src, out)
	opts.DryRun = true

	var buf bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &buf))

	assert.Contains(t, buf.String(), "2 file(s) planned")
	assert.Contains(t, buf.String(), filepath.Join(out, "a.wav"))
	assert.NoFileExists(t, filepath.Join(out, "a.wav"))
	assert.NoFileExists(t, filepath.Join(out, "sub", "b.wav"))
}

func TestRun_RecordsHistory(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeWAVTree(t, src, "a.wav")

	opts := waveOptions(t, src, out)
	opts.HistoryEnabled = true
	opts.HistoryPath = filepath.Join(t.TempDir(), "history.db")

	var buf bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &buf))

	journal, err := history.Open(opts.HistoryPath)
	require.NoError(t, err)
	defer journal.Close()
	entries, err := journal.List(10, false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "succeeded", entries[0].Status)
}

func TestToolsFrom(t *testing.T) {
	tools := toolsFrom(config.ToolPaths{Flac: "/a/flac", NeroAacTag: "/b/neroAacTag"})
	assert.Equal(t, "/a/flac", tools.Flac)
	assert.Equal(t, "/b/neroAacTag", tools.NeroAacTag)
	assert.Empty(t, tools.Opusenc)
}
