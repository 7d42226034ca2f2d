package sensors

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
	// Таймаут выполнения sensors по умолчанию
	defaultTimeout = 10 * time.Second
	// Имя источника в ошибках
	sourceName = "sensors"
)

// Sensors получение отчёта утилиты sensors (lm-sensors). Имплементирует SensorsSvc.
// Инициируется через NewSensors
type Sensors struct {
	log     *logrus.Entry
	command []string
	timeout time.Duration
}

// ConfigSensors конфигурация Sensors
type ConfigSensors struct {
	Log *logrus.Logger
	// Команда с аргументами, например ["sensors"]
	Command []string `validate:"required,min=1,dive,required"`
	Timeout time.Duration
}

// NewSensors конструктор Sensors
func NewSensors(config *ConfigSensors) (service.SensorsSvc, error) {
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

	res := &Sensors{
		log: config.Log.WithFields(map[string]interface{}{
			"module": "sensors",
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

// Report выполняет команду и возвращает её вывод
func (m Sensors) Report(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	stdout := bytes.Buffer{}
	stderr := bytes.Buffer{}
	cmd := exec.Command(m.command[0], m.command[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := tool.StartCommand(cmd); err != nil {
		return "", errors.Trace(model.NewCommandError(model.KindCommandUnavailable, sourceName, err))
	}
	err := tool.WaitCommand(ctx, cmd)
	if errors.Cause(err) == tool.ErrProcessAbandoned {
		// Вывод ещё удерживается потомками sensors, читать буферы нельзя
		return "", errors.Trace(model.NewCommandError(model.KindCommandFailed, sourceName,
			errors.Annotatef(ctx.Err(), "превышен таймаут %s", m.timeout)))
	}
	if err != nil {
		cmdErr := model.NewCommandError(model.KindCommandFailed, sourceName, err)
		cmdErr.Stderr = strings.TrimSpace(stderr.String())
		if ctx.Err() != nil {
			cmdErr.Err = errors.Annotatef(ctx.Err(), "превышен таймаут %s", m.timeout)
		} else if exitErr, ok := err.(*exec.ExitError); ok {
			cmdErr.ExitStatus = exitErr.ExitCode()
		}
		return "", errors.Trace(cmdErr)
	}

	m.log.Debugf("получен отчёт sensors (%d байт)", stdout.Len())
	return stdout.String(), nil
}
