package model

import (
	"fmt"

	"github.com/juju/errors"
)

// ErrorKind категория отказа при получении телеметрии
type ErrorKind int

const (
	KindNone ErrorKind = iota
	// Внешняя утилита отсутствует или не может быть запущена
	KindCommandUnavailable
	// Утилита завершилась с ненулевым кодом (или по таймауту)
	KindCommandFailed
	// Вывод не разбирается (некорректный JSON)
	KindMalformedOutput
	// Вывод корректный, но температуры в нём нет. Не ошибка
	KindNoData
	// Прочие ошибки, не относящиеся к описанным выше
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindCommandUnavailable:
		return "command unavailable"
	case KindCommandFailed:
		return "command failed"
	case KindMalformedOutput:
		return "malformed output"
	case KindNoData:
		return "no data"
	}
	return "unknown"
}

// CommandError ошибка запуска или выполнения внешней команды
type CommandError struct {
	Kind ErrorKind
	// Устройство или источник, для которого выполнялась команда
	Device     string
	ExitStatus int
	Stderr     string
	Err        error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Device, e.Kind)
	if e.ExitStatus != 0 {
		msg += fmt.Sprintf(" (код %d)", e.ExitStatus)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// NewCommandError конструктор CommandError
func NewCommandError(kind ErrorKind, device string, err error) *CommandError {
	return &CommandError{Kind: kind, Device: device, Err: err}
}

// KindOf определяет категорию ошибки err, в том числе обёрнутой через errors.Trace/Annotate
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if ce, ok := errors.Cause(err).(*CommandError); ok {
		return ce.Kind
	}
	return KindUnknown
}
