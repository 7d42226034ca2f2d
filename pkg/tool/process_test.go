// +build !windows

package tool

import (
	"bytes"
	"context"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitCommand(t *testing.T) {
	cmd := exec.Command("sh", "-c", "exit 3")
	require.NoError(t, StartCommand(cmd))

	err := WaitCommand(context.Background(), cmd)
	exitErr, ok := err.(*exec.ExitError)
	require.True(t, ok, "ожидается *exec.ExitError, получено %v", err)
	assert.Equal(t, 3, exitErr.ExitCode())
}

// Потомок sh держит поток вывода: отмена должна завершить всю группу
func TestWaitCommandKillsGroup(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	cmd := exec.Command("sh", "-c", "sleep 3; echo done")
	out := new(lockedBuffer)
	cmd.Stdout = out
	require.NoError(t, StartCommand(cmd))

	start := time.Now()
	err := WaitCommand(ctx, cmd)
	elapsed := time.Since(start)

	assert.Error(t, err)
	assert.NotEqual(t, ErrProcessAbandoned, errors.Cause(err), "группа процессов должна завершиться")
	assert.Less(t, int64(elapsed), int64(time.Second), "время ожидания %s", elapsed)
	assert.Empty(t, out.String())
}

// Буфер вывода, безопасный при чтении до завершения процесса
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (m *lockedBuffer) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buf.Write(p)
}

func (m *lockedBuffer) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buf.String()
}
