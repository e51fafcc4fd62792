package pidfile_test

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/idleprofit-go/internal/infrastructure/pidfile"
)

// unusedPID is above the Linux pid_max ceiling, so no process can hold it
const unusedPID = 99999999

func readPID(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	require.NoError(t, err)
	return pid
}

func TestPIDFile_AcquireWritesOwnPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serve.pid")
	pf := pidfile.New(path)

	require.NoError(t, pf.Acquire())

	assert.Equal(t, os.Getpid(), readPID(t, path))
	owner, ok, err := pf.Owner()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, os.Getpid(), owner)
}

func TestPIDFile_SecondAcquireReportsRunningOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serve.pid")
	require.NoError(t, pidfile.New(path).Acquire())

	err := pidfile.New(path).Acquire()

	require.ErrorIs(t, err, pidfile.ErrAlreadyRunning)
	var running *pidfile.RunningError
	require.ErrorAs(t, err, &running)
	assert.Equal(t, os.Getpid(), running.PID)
}

func TestPIDFile_ReplacesStaleAndGarbageLocks(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{name: "dead process", contents: strconv.Itoa(unusedPID) + "\n"},
		{name: "not a pid", contents: "garbage"},
		{name: "empty", contents: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "serve.pid")
			require.NoError(t, os.WriteFile(path, []byte(tt.contents), 0o644))

			require.NoError(t, pidfile.New(path).Acquire())

			assert.Equal(t, os.Getpid(), readPID(t, path))
		})
	}
}

func TestPIDFile_ReleaseKeepsForeignLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serve.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(unusedPID)), 0o644))

	require.NoError(t, pidfile.New(path).Release())

	assert.FileExists(t, path)
}

func TestPIDFile_ReleaseRemovesOwnLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serve.pid")
	pf := pidfile.New(path)
	require.NoError(t, pf.Acquire())

	require.NoError(t, pf.Release())

	assert.NoFileExists(t, path)
	require.NoError(t, pf.Release())
}

func TestPIDFile_TakeoverOfStaleLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serve.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(unusedPID)), 0o644))

	require.NoError(t, pidfile.New(path).Takeover(0))

	assert.Equal(t, os.Getpid(), readPID(t, path))
}
