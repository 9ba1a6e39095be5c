// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/invowk/resxgen/internal/discovery"
	"github.com/invowk/resxgen/internal/testutil"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// recorder collects callback invocations.
type recorder struct {
	mu    sync.Mutex
	calls [][]string
	fired chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan struct{}, 16)}
}

func (r *recorder) onChange(_ context.Context, changed []string) error {
	r.mu.Lock()
	r.calls = append(r.calls, changed)
	r.mu.Unlock()
	r.fired <- struct{}{}
	return nil
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

func startWatcher(t *testing.T, cfg Config) context.CancelFunc {
	t.Helper()

	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-errCh; err != nil {
			t.Errorf("Run() error: %v", err)
		}
	})
	return cancel
}

func waitFired(t *testing.T, r *recorder) {
	t.Helper()
	select {
	case <-r.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()
	startWatcher(t, Config{Root: dir, Debounce: 100 * time.Millisecond, Logger: discardLogger, OnChange: rec.onChange})

	for _, name := range []string{"A.resx", "A.de.resx", "B.resx"} {
		testutil.MustWriteFile(t, filepath.Join(dir, name), testutil.Resx("k", "v"))
		// Separate events, still inside the debounce window.
		time.Sleep(10 * time.Millisecond)
	}

	waitFired(t, rec)
	time.Sleep(250 * time.Millisecond)

	calls := rec.snapshot()
	if len(calls) != 1 {
		t.Fatalf("expected 1 debounced callback, got %d: %v", len(calls), calls)
	}
	for _, want := range []string{"A.de.resx", "A.resx", "B.resx"} {
		if !slices.Contains(calls[0], want) {
			t.Errorf("expected %q in changed files, got %v", want, calls[0])
		}
	}
	if !slices.IsSorted(calls[0]) {
		t.Errorf("changed files not sorted: %v", calls[0])
	}
}

func TestWatcherFiltersThroughSelector(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustMkdirAll(t, filepath.Join(dir, "bin"), 0o755)
	testutil.MustMkdirAll(t, filepath.Join(dir, "Resources"), 0o755)

	sel, err := discovery.NewSelector([]string{"Resources/**/*.resx"}, nil)
	if err != nil {
		t.Fatalf("NewSelector() error: %v", err)
	}
	rec := newRecorder()
	startWatcher(t, Config{
		Root:     dir,
		Selector: sel,
		Extra:    []string{"resxgen.cue"},
		Debounce: 50 * time.Millisecond,
		Logger:   discardLogger,
		OnChange: rec.onChange,
	})

	testutil.MustWriteFile(t, filepath.Join(dir, "notes.txt"), "x")
	testutil.MustWriteFile(t, filepath.Join(dir, "Top.resx"), testutil.Resx())
	testutil.MustWriteFile(t, filepath.Join(dir, "bin", "Copy.resx"), testutil.Resx())
	testutil.MustWriteFile(t, filepath.Join(dir, "Resources", "Strings.RESX"), testutil.Resx())
	testutil.MustWriteFile(t, filepath.Join(dir, "resxgen.cue"), `assembly_name: "A"`)

	waitFired(t, rec)
	time.Sleep(150 * time.Millisecond)

	var all []string
	for _, c := range rec.snapshot() {
		all = append(all, c...)
	}
	slices.Sort(all)
	all = slices.Compact(all)
	want := []string{"Resources/Strings.RESX", "resxgen.cue"}
	if !slices.Equal(all, want) {
		t.Errorf("changed = %v, want %v", all, want)
	}
}

func TestWatcherNewDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()
	startWatcher(t, Config{Root: dir, Debounce: 50 * time.Millisecond, Logger: discardLogger, OnChange: rec.onChange})

	sub := filepath.Join(dir, "Late")
	testutil.MustMkdirAll(t, sub, 0o755)
	// Give the event loop time to register the new directory.
	time.Sleep(100 * time.Millisecond)
	testutil.MustWriteFile(t, filepath.Join(sub, "Strings.resx"), testutil.Resx())

	waitFired(t, rec)
	calls := rec.snapshot()
	if !slices.Contains(calls[len(calls)-1], "Late/Strings.resx") {
		t.Errorf("calls = %v, want Late/Strings.resx", calls)
	}
}

func TestWatcherSkipIfBusy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var (
		mu    sync.Mutex
		calls int
	)
	release := make(chan struct{})
	entered := make(chan struct{}, 4)

	startWatcher(t, Config{
		Root:     dir,
		Debounce: 30 * time.Millisecond,
		Logger:   discardLogger,
		OnChange: func(ctx context.Context, _ []string) error {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			entered <- struct{}{}
			if n == 1 {
				select {
				case <-release:
				case <-ctx.Done():
				}
			}
			return nil
		},
	})

	testutil.MustWriteFile(t, filepath.Join(dir, "A.resx"), testutil.Resx())
	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first callback never ran")
	}

	// Changes while the first callback blocks are delivered afterwards.
	testutil.MustWriteFile(t, filepath.Join(dir, "B.resx"), testutil.Resx())
	time.Sleep(150 * time.Millisecond)
	mu.Lock()
	during := calls
	mu.Unlock()
	if during != 1 {
		t.Errorf("callbacks overlapped: %d running", during)
	}
	close(release)

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("deferred callback never ran")
	}
}

func TestWatcherContextCancel(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Root: t.TempDir(), Logger: discardLogger})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcherDoubleRunError(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Root: t.TempDir(), Logger: discardLogger})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Wait until the first Run has claimed the watcher.
	for !w.started.Load() {
		time.Sleep(time.Millisecond)
	}
	if err := w.Run(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() = %v, want ErrAlreadyRunning", err)
	}
	cancel()
	<-done
}

func TestClassify(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(Config{Root: dir, Extra: []string{"resxgen.toml"}, Logger: discardLogger})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = w.fsw.Close() })

	tests := []struct {
		name string
		evt  fsnotify.Event
		want bool
	}{
		{"write resx", fsnotify.Event{Name: filepath.Join(dir, "A.resx"), Op: fsnotify.Write}, true},
		{"remove resx", fsnotify.Event{Name: filepath.Join(dir, "A.fr.resx"), Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: filepath.Join(dir, "A.resx"), Op: fsnotify.Chmod}, false},
		{"obj output", fsnotify.Event{Name: filepath.Join(dir, "obj", "A.resx"), Op: fsnotify.Write}, false},
		{"generated code", fsnotify.Event{Name: filepath.Join(dir, "A.resx.g.cs"), Op: fsnotify.Write}, false},
		{"project file", fsnotify.Event{Name: filepath.Join(dir, "resxgen.toml"), Op: fsnotify.Write}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, got := w.classify(tt.evt); got != tt.want {
				t.Errorf("classify(%v) = %v, want %v", tt.evt, got, tt.want)
			}
		})
	}
}

func TestNew_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Root: filepath.Join(t.TempDir(), "absent"), Logger: discardLogger})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("New() error = %v, want os.ErrNotExist", err)
	}
}
