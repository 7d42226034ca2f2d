package tool

import (
	"context"
	"os/exec"
	"time"

	"github.com/juju/errors"
)

// Время ожидания закрытия потоков вывода после завершения группы процессов
const killGracePeriod = 500 * time.Millisecond

// ErrProcessAbandoned процесс или его потомки не завершились после отмены контекста,
// их вывод брошен
var ErrProcessAbandoned = errors.New("процесс не завершился после отмены")

// StartCommand запускает cmd в отдельной группе процессов, чтобы при отмене можно
// было завершить и всех потомков (например, smartctl, запущенный через sudo)
func StartCommand(cmd *exec.Cmd) error {
	setProcessGroup(cmd)
	return cmd.Start()
}

// WaitCommand ожидает завершения запущенного через StartCommand процесса. При отмене
// ctx завершается вся группа процессов. Если потоки вывода не освободились за
// killGracePeriod, возвращается ErrProcessAbandoned и буферы вывода cmd читать нельзя
func WaitCommand(ctx context.Context, cmd *exec.Cmd) error {
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}

	killProcessGroup(cmd)
	select {
	case err := <-done:
		return err
	case <-time.After(killGracePeriod):
		return errors.Trace(ErrProcessAbandoned)
	}
}
