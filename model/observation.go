package model

import "time"

// Observation нормализованная метрика для передачи в систему отчётности
type Observation struct {
	Name  string   `json:"name"`
	Value float64  `json:"value"`
	Tags  []string `json:"tags"`
}

// Cycle результат одного цикла сбора телеметрии
type Cycle struct {
	ID           string        `json:"id"`
	CreateAt     time.Time     `json:"create_at"`
	Observations []Observation `json:"observations"`
}

// CommandResult результат выполнения внешней команды
type CommandResult struct {
	ExitStatus int
	Stdout     []byte
	Stderr     []byte
}
