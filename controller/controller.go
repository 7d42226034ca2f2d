package controller

import (
	"context"

	"github.com/kirsrus/hosttemp/model"
)

// ProbeCtl контроллер опроса накопителей
//go:generate mockery --dir . --name ProbeCtl --output ./mocks
type ProbeCtl interface {
	// Опрашивает все накопители и возвращает температуры тех, по которым есть данные
	ProbeAllDrives(ctx context.Context) map[string]model.DriveTemperature
}

// AssemblerCtl контроллер сборки метрик за один цикл
//go:generate mockery --dir . --name AssemblerCtl --output ./mocks
type AssemblerCtl interface {
	// Собирает метрики из всех источников. Ошибка только при отмене ctx
	Collect(ctx context.Context) ([]model.Observation, error)
}
