// Package walk drives checks over the paths given on the command line,
// recursing into directories when enabled and aggregating exit codes.
package walk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/user/xtag/internal/check"
	"github.com/user/xtag/internal/model"
)

// Recorder receives every check result, e.g. to persist it in the scan
// journal. A nil recorder is allowed.
type Recorder interface {
	Record(res check.Result) error
}

// devino identifies a directory for filesystem-loop detection.
type devino struct {
	dev uint64
	ino uint64
}

// Walker processes paths strictly sequentially, one open descriptor at a
// time, keeping the worst exit code observed.
type Walker struct {
	checker *check.Checker
	opts    model.Options
	rec     Recorder
	out     io.Writer
	errOut  io.Writer

	// parents is the stack of directories on the current descent.
	parents []devino
	exit    int
}

// New returns a walker writing reports to out and errors to errOut.
func New(c *check.Checker, opts model.Options, out, errOut io.Writer) *Walker {
	return &Walker{checker: c, opts: opts, out: out, errOut: errOut}
}

// SetRecorder attaches a result recorder.
func (w *Walker) SetRecorder(r Recorder) { w.rec = r }

// ExitCode returns the worst per-file exit code seen so far.
func (w *Walker) ExitCode() int { return w.exit }

// Process checks one command-line path, recursing if it is a directory and
// recursion is enabled.
func (w *Walker) Process(path string) {
	// Trailing slashes would double up in recursion joins.
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	w.process(path)
}

func (w *Walker) process(path string) {
	f, err := os.Open(path)
	if err != nil {
		w.errorf("could not open %q: %v", path, err)
		w.raise(model.ExitError)
		return
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		w.errorf("could not stat %q: %v", path, err)
		w.raise(model.ExitError)
		return
	}

	switch mode := info.Mode(); {
	case mode.IsRegular():
		w.checkFile(f, path, info)
		f.Close()
	case mode.IsDir():
		if !w.opts.Recursive {
			f.Close()
			w.errorf("%q is a directory (use --recursive)", path)
			w.raise(model.ExitError)
			return
		}
		w.processDir(f, path, info)
	default:
		f.Close()
		w.errorf("%q: %v", path, model.ErrNotRegular)
		w.raise(model.ExitError)
	}
}

func (w *Walker) checkFile(f *os.File, path string, info os.FileInfo) {
	res := w.checker.Check(f, path, info, w.opts)
	check.Report(w.out, w.errOut, res, w.opts)
	w.raise(res.Code)

	if w.rec != nil {
		if err := w.rec.Record(res); err != nil {
			w.errorf("recording result for %q: %v", path, err)
			w.raise(model.ExitError)
		}
	}
}

func (w *Walker) processDir(f *os.File, path string, info os.FileInfo) {
	defer f.Close()

	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		id := devino{dev: uint64(st.Dev), ino: uint64(st.Ino)}
		for _, parent := range w.parents {
			if parent == id {
				w.errorf("%v at %q", model.ErrLoopDetected, path)
				w.raise(model.ExitError)
				return
			}
		}
		w.parents = append(w.parents, id)
		defer func() { w.parents = w.parents[:len(w.parents)-1] }()
	}

	entries, err := f.ReadDir(-1)
	if err != nil {
		w.errorf("could not read directory %q: %v", path, err)
		w.raise(model.ExitError)
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		w.process(filepath.Join(path, entry.Name()))
	}
}

func (w *Walker) raise(code int) {
	w.exit = model.WorstExit(w.exit, code)
}

func (w *Walker) errorf(format string, args ...interface{}) {
	if w.opts.Show(model.LevelError) {
		fmt.Fprintf(w.errOut, "Error: "+format+"\n", args...)
	}
}
