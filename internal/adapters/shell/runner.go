// Package shell provides the command runner adapter backed by os/exec.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/prep/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner implements ports.CommandRunner using os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger: logger,
	}
}

// Run executes the spec's command and blocks until it exits.
//
// The environment is the process environment with spec.Env layered on top;
// PATH entries from spec.Env are prepended rather than replacing the system
// PATH. Output is streamed to spec.Stdout/spec.Stderr and mirrored
// line-buffered to the logger. On a non-zero exit the returned error carries
// the exit code and the invoked command.
func (r *Runner) Run(ctx context.Context, spec ports.RunSpec) error {
	if len(spec.Command) == 0 {
		return zerr.New("empty command")
	}

	name := spec.Command[0]
	args := spec.Command[1:]

	cmdEnv := mergeEnvironment(os.Environ(), spec.Env)

	// Resolve the executable against the merged PATH so spec.Env can
	// influence lookup, matching execve semantics.
	executable := name
	if !strings.ContainsRune(name, os.PathSeparator) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // command comes from the manifest
	if len(cmd.Args) > 0 {
		// Preserve the name as invoked; CommandContext rewrites Args[0]
		// to the resolved path.
		cmd.Args[0] = name
	}
	cmd.Env = cmdEnv

	cmd.Stdout = io.MultiWriter(nonNil(spec.Stdout), &logWriter{logger: r.logger})
	cmd.Stderr = io.MultiWriter(nonNil(spec.Stderr), &logWriter{logger: r.logger, errStream: true})

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		failure := zerr.Wrap(err, "command failed")
		failure = zerr.With(failure, "command", strings.Join(spec.Command, " "))
		return zerr.With(failure, "exit_code", strconv.Itoa(exitCode))
	}

	return nil
}

func nonNil(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// logWriter mirrors command output to the logger, one line per call.
type logWriter struct {
	logger    ports.Logger
	errStream bool
	buf       []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		idx := bytes.IndexByte(w.buf, '\n')
		if idx < 0 {
			break
		}
		w.emit(string(w.buf[:idx]))
		w.buf = w.buf[idx+1:]
	}
	return len(p), nil
}

func (w *logWriter) emit(line string) {
	if line == "" {
		return
	}
	if w.errStream {
		w.logger.Warn(line)
		return
	}
	w.logger.Info(line)
}

// mergeEnvironment layers overlay entries over the base environment.
// PATH is special-cased: overlay paths are prepended to the base PATH.
func mergeEnvironment(base, overlay []string) []string {
	envMap := make(map[string]string, len(base)+len(overlay))
	order := make([]string, 0, len(base)+len(overlay))

	set := func(k, v string) {
		if _, exists := envMap[k]; !exists {
			order = append(order, k)
		}
		envMap[k] = v
	}

	for _, entry := range base {
		if k, v, ok := strings.Cut(entry, "="); ok {
			set(k, v)
		}
	}
	for _, entry := range overlay {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if basePath, exists := envMap["PATH"]; exists && basePath != "" {
				set(k, v+string(os.PathListSeparator)+basePath)
				continue
			}
		}
		set(k, v)
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the PATH of the given environment.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: an empty path element means ".".
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
