package service

import (
	"context"

	"github.com/kirsrus/hosttemp/model"
)

// SensorsSvc источник текстового отчёта аппаратных датчиков
//go:generate mockery --dir . --name SensorsSvc --output ./mocks
type SensorsSvc interface {
	// Возвращает полный текст отчёта. Если утилита не может быть запущена, возвращается
	// ошибка категории model.KindCommandUnavailable
	Report(ctx context.Context) (string, error)
}

// DiagnosticSvc запуск внешней диагностики для одного устройства
//go:generate mockery --dir . --name DiagnosticSvc --output ./mocks
type DiagnosticSvc interface {
	// Запускает диагностику устройства device (полный путь) и не ждёт её завершения.
	// Ошибка означает, что процесс не удалось даже запустить
	Start(ctx context.Context, device string) (Process, error)
}

// Process запущенная диагностика
type Process interface {
	// Ожидает завершения и возвращает код завершения и захваченный вывод. Ненулевой код
	// возврата ошибкой не считается, ошибка означает сбой самого ожидания (например, таймаут)
	Wait() (*model.CommandResult, error)
}

// ThermalSvc чтение температурных зон ядра
//go:generate mockery --dir . --name ThermalSvc --output ./mocks
type ThermalSvc interface {
	// Перечень опрашиваемых зон
	Zones() ([]string, error)
	// Значение зоны в тысячных долях градуса
	Read(zone string) (float64, error)
}

// ReporterSvc приёмник собранных за цикл метрик
//go:generate mockery --dir . --name ReporterSvc --output ./mocks
type ReporterSvc interface {
	Report(cycle model.Cycle) error
}
