package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, false, slog.LevelWarn)

	log.Info("dropped")
	log.Warn("kept", "group", "Landmarks")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "msg=kept")
	assert.Contains(t, out, "group=Landmarks")
}

func TestLogger_ContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, true, slog.LevelInfo)

	ctx := AppendCtx(context.Background(), slog.String("cmd", "inspect"))
	ctx = AppendCtx(ctx, slog.Int("files", 2))
	log.InfoContext(ctx, "done")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "done", rec["msg"])
	assert.Equal(t, "inspect", rec["cmd"])
	assert.Equal(t, float64(2), rec["files"])
}

func TestAppendCtx_DoesNotShareParent(t *testing.T) {
	parent := AppendCtx(context.Background(), slog.String("a", "1"))
	left := AppendCtx(parent, slog.String("b", "2"))
	right := AppendCtx(parent, slog.String("c", "3"))

	assert.Len(t, parent.Value(ctxKey{}).([]slog.Attr), 1)
	assert.Equal(t, "b", left.Value(ctxKey{}).([]slog.Attr)[1].Key)
	assert.Equal(t, "c", right.Value(ctxKey{}).([]slog.Attr)[1].Key)
}

func TestLogger_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, false, slog.LevelInfo).WithGroup("fid").With("set", 1)

	log.InfoContext(AppendCtx(context.Background(), slog.String("x", "y")), "hello")
	assert.True(t, strings.Contains(buf.String(), "fid.set=1"), buf.String())
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fiducialctl.log")
	w := FileWriter(FileConfig{Filename: path, MaxSize: 1})
	log := Logger(w, false, slog.LevelInfo)
	log.Info("rotating")
	require.NoError(t, w.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "msg=rotating")
}
