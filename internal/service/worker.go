package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"plant_monitor/internal/logger"
)

const workerWaitDelay = time.Second

// WorkerLauncher runs the analysis worker for one plant and waits for it to exit.
type WorkerLauncher interface {
	Launch(ctx context.Context, plantID, sensorNode string) error
}

// ExecLauncher starts the worker as a child process.
// The plant id and sensor node are appended to Args.
type ExecLauncher struct {
	Command string
	Args    []string
	Dir     string
	Timeout time.Duration // zero means bounded only by ctx

	log *logger.Logger
}

func NewExecLauncher(command string, args []string, dir string, timeout time.Duration, log *logger.Logger) *ExecLauncher {
	return &ExecLauncher{
		Command: command,
		Args:    args,
		Dir:     dir,
		Timeout: timeout,
		log:     logger.OrNop(log),
	}
}

func (l *ExecLauncher) Launch(ctx context.Context, plantID, sensorNode string) error {
	if strings.TrimSpace(l.Command) == "" {
		return errors.New("worker command is not configured")
	}
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, l.Args...), plantID, sensorNode)
	cmd := exec.CommandContext(ctx, l.Command, args...)
	cmd.Dir = l.Dir
	// Children of the worker may keep the pipes open after it is killed.
	cmd.WaitDelay = workerWaitDelay

	stdout := &lineLogger{log: l.log, stream: "stdout", plantID: plantID}
	stderr := &lineLogger{log: l.log, stream: "stderr", plantID: plantID}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", l.Command, err)
	}
	l.log.Infow("worker_started", "pid", cmd.Process.Pid, "plant_id", plantID, "sensor_node", sensorNode)

	err := cmd.Wait()
	stdout.flush()
	stderr.flush()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			l.log.Warnw("worker_exit_nonzero", "plant_id", plantID, "code", exitErr.ExitCode(), "took", time.Since(started))
			return fmt.Errorf("worker exited with code %d: %w", exitErr.ExitCode(), err)
		}
		return fmt.Errorf("wait for worker: %w", err)
	}
	l.log.Infow("worker_finished", "plant_id", plantID, "took", time.Since(started))
	return nil
}

// lineLogger logs worker output one line at a time. stderr lines go out at warn.
type lineLogger struct {
	log     *logger.Logger
	stream  string
	plantID string
	buf     bytes.Buffer
}

func (w *lineLogger) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// partial line, keep it for the next write
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

func (w *lineLogger) flush() {
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *lineLogger) emit(line string) {
	if w.stream == "stderr" {
		w.log.Warnw("worker_output", "stream", w.stream, "plant_id", w.plantID, "line", line)
		return
	}
	w.log.Infow("worker_output", "stream", w.stream, "plant_id", w.plantID, "line", line)
}
