package smart

import (
	"bytes"
	"context"
	"io/ioutil"
	"os/exec"
	"strings"
	"time"

	"github.com/kirsrus/hosttemp/model"
	"github.com/kirsrus/hosttemp/pkg/tool"
	"github.com/kirsrus/hosttemp/pkg/validator"
	"github.com/kirsrus/hosttemp/service"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

const (
	// Таймаут опроса одного устройства по умолчанию
	defaultTimeout = 30 * time.Second
)

// Smartctl запуск smartctl для устройства. Имплементирует DiagnosticSvc.
// Инициируется через NewSmartctl
type Smartctl struct {
	log     *logrus.Entry
	command []string
	timeout time.Duration
}

// ConfigSmartctl конфигурация Smartctl
type ConfigSmartctl struct {
	Log *logrus.Logger
	// Команда с аргументами. Путь к устройству добавляется последним аргументом,
	// например ["sudo", "smartctl", "--json", "-A"]
	Command []string `validate:"required,min=1,dive,required"`
	// Таймаут опроса одного устройства
	Timeout time.Duration
}

// NewSmartctl конструктор Smartctl
func NewSmartctl(config *ConfigSmartctl) (service.DiagnosticSvc, error) {
	if config == nil {
		return nil, errors.New("не задана конфигурация config")
	}
	if err := validator.Get().Validate(config); err != nil {
		return nil, errors.Annotate(err, "ошибка в конфигурации")
	}
	if config.Log == nil {
		config.Log = logrus.New()
		config.Log.Out = ioutil.Discard
	}

	res := &Smartctl{
		log: config.Log.WithFields(map[string]interface{}{
			"module": "smartctl",
			"scope":  "service",
		}),
		command: config.Command,
		timeout: defaultTimeout,
	}
	if config.Timeout != 0 {
		res.timeout = config.Timeout
	}
	return res, nil
}

// Start запускает процесс опроса устройства и сразу возвращает управление
func (m Smartctl) Start(ctx context.Context, device string) (service.Process, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)

	args := append(append([]string{}, m.command[1:]...), device)
	proc := &process{
		ctx:     ctx,
		cancel:  cancel,
		device:  device,
		timeout: m.timeout,
	}
	proc.cmd = exec.Command(m.command[0], args...)
	proc.cmd.Stdout = &proc.stdout
	proc.cmd.Stderr = &proc.stderr

	if err := tool.StartCommand(proc.cmd); err != nil {
		cancel()
		return nil, errors.Trace(model.NewCommandError(model.KindCommandUnavailable, device, err))
	}
	m.log.WithField("device", device).Debugf("запущен %s (pid %d)", m.command[0], proc.cmd.Process.Pid)
	return proc, nil
}

// Запущенный процесс smartctl
type process struct {
	ctx     context.Context
	cancel  context.CancelFunc
	device  string
	timeout time.Duration
	cmd     *exec.Cmd
	stdout  bytes.Buffer
	stderr  bytes.Buffer
}

// Wait ожидает завершения процесса. Ненулевой код возврата передаётся в результате,
// ошибкой считается только превышение таймаута или сбой ожидания. По таймауту
// завершается вся группа процессов, ожидание не превышает таймаут более чем на
// время освобождения потоков вывода
func (m *process) Wait() (*model.CommandResult, error) {
	defer m.cancel()

	err := tool.WaitCommand(m.ctx, m.cmd)
	if errors.Cause(err) == tool.ErrProcessAbandoned {
		// Буферы вывода ещё заняты потомками процесса
		return nil, errors.Trace(model.NewCommandError(model.KindCommandFailed, m.device, m.ctxError()))
	}
	if err != nil && m.ctx.Err() != nil {
		cmdErr := model.NewCommandError(model.KindCommandFailed, m.device, m.ctxError())
		cmdErr.Stderr = strings.TrimSpace(m.stderr.String())
		return nil, errors.Trace(cmdErr)
	}

	res := &model.CommandResult{
		Stdout: m.stdout.Bytes(),
		Stderr: m.stderr.Bytes(),
	}
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return nil, errors.Trace(model.NewCommandError(model.KindCommandFailed, m.device, err))
		}
		res.ExitStatus = exitErr.ExitCode()
	}
	return res, nil
}

func (m *process) ctxError() error {
	if m.ctx.Err() == context.DeadlineExceeded {
		return errors.Errorf("превышен таймаут %s", m.timeout)
	}
	return errors.Annotate(m.ctx.Err(), "опрос прерван")
}
