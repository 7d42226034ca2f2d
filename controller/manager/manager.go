package manager

import (
	"context"
	"io/ioutil"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kirsrus/hosttemp/controller"
	"github.com/kirsrus/hosttemp/model"
	"github.com/kirsrus/hosttemp/service"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	checkInterval = 60 * time.Second
)

// ConfigManager конфигурация Manager
type ConfigManager struct {
	Log *logrus.Logger

	AssemblerCtl controller.AssemblerCtl
	Reporters    []service.ReporterSvc

	// Интервал между циклами сбора
	Interval time.Duration
}

// Manager планировщик циклов сбора телеметрии. Каждый цикл передаётся всем приёмникам.
// Инициируется через NewManager
type Manager struct {
	ctx context.Context
	log *logrus.Entry

	assemblerCtl controller.AssemblerCtl
	reporters    []service.ReporterSvc

	interval time.Duration
	busy     int32
	wg       sync.WaitGroup
}

// NewManager конструктор Manager
func NewManager(ctx context.Context, config *ConfigManager) (*Manager, error) {
	if config == nil {
		return nil, errors.New("не передана конфигурация")
	}
	if config.Log == nil {
		config.Log = logrus.New()
		config.Log.Out = ioutil.Discard
	}
	if config.AssemblerCtl == nil {
		return nil, errors.New("не передан сборщик телеметрии")
	}
	if len(config.Reporters) == 0 {
		return nil, errors.New("не переданы приёмники метрик")
	}

	manager := Manager{
		ctx: ctx,
		log: config.Log.WithFields(map[string]interface{}{
			"module": "manager",
			"scope":  "controller",
		}),
		assemblerCtl: config.AssemblerCtl,
		reporters:    config.Reporters,
		interval:     checkInterval,
	}
	if config.Interval != 0 {
		manager.interval = config.Interval
	}

	manager.configToLog()

	return &manager, nil
}

// Вывести значения конфигурациии в лог
func (m *Manager) configToLog() {
	m.log.Debugf("interval: %s", m.interval)
	m.log.Debugf("reporters: %d", len(m.reporters))
}

// Serve выполняет цикл сбора сразу и далее с интервалом interval до отмены контекста.
// Если предыдущий цикл ещё не завершён, очередной запуск пропускается. После отмены
// контекста дожидается завершения текущего цикла
func (m *Manager) Serve() error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.tick()
	for {
		select {
		case <-m.ctx.Done():
			m.wg.Wait()
			return nil
		case <-ticker.C:
			m.tick()
		}
	}
}

func (m *Manager) tick() {
	if !atomic.CompareAndSwapInt32(&m.busy, 0, 1) {
		m.log.Warn("предыдущий цикл сбора ещё не завершён, запуск пропущен")
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer atomic.StoreInt32(&m.busy, 0)
		if _, err := m.RunOnce(m.ctx); err != nil && errors.Cause(err) != context.Canceled {
			m.log.Error(err)
		}
	}()
}

// RunOnce выполняет один цикл: сбор метрик и их передачу всем приёмникам. Ошибки
// приёмников только логируются
func (m *Manager) RunOnce(ctx context.Context) (model.Cycle, error) {
	cycle := model.Cycle{
		ID:       uuid.New().String(),
		CreateAt: time.Now(),
	}
	log := m.log.WithField("cycle", cycle.ID)

	observations, err := m.assemblerCtl.Collect(ctx)
	if err != nil {
		return cycle, errors.Annotate(err, "ошибка сбора телеметрии")
	}
	cycle.Observations = observations
	log.Infof("цикл сбора завершён за %s, метрик: %d", time.Since(cycle.CreateAt).Round(time.Millisecond), len(observations))

	g := new(errgroup.Group)
	for _, reporter := range m.reporters {
		reporter := reporter
		g.Go(func() error {
			if err := reporter.Report(cycle); err != nil {
				log.Warnf("ошибка передачи метрик: %v", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return cycle, nil
}
