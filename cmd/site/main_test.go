package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestBuildCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dist")
	_, err := runCmd(t, "build", "--output", dir, "--strict")
	require.NoError(t, err)
	for _, name := range []string{"index.html", "faq/index.html", "404.html", "sitemap.xml", "robots.txt", "assets/css/site.css"} {
		require.FileExists(t, filepath.Join(dir, filepath.FromSlash(name)))
	}
}

func TestAuditCommand(t *testing.T) {
	out, err := runCmd(t, "audit", "/faq/", "/balcony-reconstruction-lakeland/")
	require.NoError(t, err)
	require.Contains(t, out, "2 page(s) checked, 0 finding(s)")

	_, err = runCmd(t, "audit", "/no-such-page/")
	require.Error(t, err)
}

func TestMissingConfigFileFails(t *testing.T) {
	_, err := runCmd(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "audit")
	require.Error(t, err)
}

func TestWatcherDebouncesReloads(t *testing.T) {
	root := t.TempDir()
	var reloads atomic.Int32
	w, err := newWatcher(root, 50*time.Millisecond, func() error {
		reloads.Add(1)
		return nil
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "site.yaml"), []byte{byte('a' + i)}, 0o644))
	}
	require.Eventually(t, func() bool { return reloads.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	require.Equal(t, int32(1), reloads.Load())
}

func TestServeStopsOnCancel(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, zap.NewNop()) }()
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
