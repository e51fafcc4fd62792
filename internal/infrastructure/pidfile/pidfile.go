package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrAlreadyRunning is matched by the error Acquire returns while another live process holds the file
var ErrAlreadyRunning = errors.New("server is already running")

// RunningError names the process holding the lock
type RunningError struct {
	PID int
}

func (e *RunningError) Error() string {
	return fmt.Sprintf("%s (PID %d)", ErrAlreadyRunning, e.PID)
}

func (e *RunningError) Is(target error) bool {
	return target == ErrAlreadyRunning
}

// PIDFile keeps a single `idleprofit serve` per lock path
type PIDFile struct {
	path string
	pid  int
}

// New creates a lock at path owned by the current process
func New(path string) *PIDFile {
	return &PIDFile{path: path, pid: os.Getpid()}
}

// Path returns the lock location
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire creates the lock file. A file left by a dead process, or one that does
// not hold a PID, is replaced.
func (p *PIDFile) Acquire() error {
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(p.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d\n", p.pid)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(p.path)
				return fmt.Errorf("failed to write PID file: %w", errors.Join(werr, cerr))
			}
			return nil
		}
		if !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("failed to create PID file: %w", err)
		}

		owner, ok, err := p.Owner()
		if err != nil {
			return err
		}
		if ok && isProcessRunning(owner) {
			return &RunningError{PID: owner}
		}
		if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale PID file: %w", err)
		}
	}
	return fmt.Errorf("failed to acquire PID file %s: lock changed hands while acquiring", p.path)
}

// Owner reads the PID stored in the lock; ok is false when there is no lock or it is unreadable as a PID
func (p *PIDFile) Owner() (pid int, ok bool, err error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read PID file: %w", err)
	}
	pid, convErr := strconv.Atoi(strings.TrimSpace(string(data)))
	if convErr != nil || pid <= 0 {
		return 0, false, nil
	}
	return pid, true, nil
}

// Takeover asks the current holder to terminate, waits up to timeout for it to
// exit and then acquires the lock
func (p *PIDFile) Takeover(timeout time.Duration) error {
	owner, ok, err := p.Owner()
	if err != nil {
		return err
	}
	if ok && owner != p.pid && isProcessRunning(owner) {
		process, err := os.FindProcess(owner)
		if err != nil {
			return fmt.Errorf("failed to find process %d: %w", owner, err)
		}
		if err := process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("failed to stop process %d: %w", owner, err)
		}

		deadline := time.Now().Add(timeout)
		for isProcessRunning(owner) {
			if time.Now().After(deadline) {
				return fmt.Errorf("process %d did not exit within %s", owner, timeout)
			}
			time.Sleep(50 * time.Millisecond)
		}
	}
	if ok && owner == p.pid {
		return nil
	}
	return p.Acquire()
}

// Release removes the lock when it is still ours
func (p *PIDFile) Release() error {
	owner, ok, err := p.Owner()
	if err != nil {
		return err
	}
	if ok && owner != p.pid {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isProcessRunning probes pid with signal 0
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM: the process exists under another user
	return errors.Is(err, syscall.EPERM)
}
