package reporter

import (
	"io/ioutil"

	"github.com/kirsrus/hosttemp/model"
	"github.com/kirsrus/hosttemp/service"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

// Log приёмник метрик, записывающий каждую метрику цикла в лог отдельной записью.
// Инициализируется через NewLog
type Log struct {
	log   *logrus.Entry
	level logrus.Level
}

// ConfigLog конфигурация Log
type ConfigLog struct {
	Log *logrus.Logger
	// Уровень, на котором выводятся метрики. По умолчанию Info
	Level logrus.Level
}

// NewLog конструктор Log
func NewLog(config *ConfigLog) (service.ReporterSvc, error) {
	if config == nil {
		return nil, errors.New("не установлен config")
	}
	if config.Log == nil {
		config.Log = logrus.New()
		config.Log.Out = ioutil.Discard
	}
	reporter := Log{
		log: config.Log.WithFields(map[string]interface{}{
			"module": "reporter",
			"scope":  "service",
		}),
		level: logrus.InfoLevel,
	}
	if config.Level != 0 {
		reporter.level = config.Level
	}
	return &reporter, nil
}

// Report выводит метрики цикла в лог
func (m Log) Report(cycle model.Cycle) error {
	log := m.log.WithField("cycle", cycle.ID)
	for _, obs := range cycle.Observations {
		log.WithFields(map[string]interface{}{
			"name": obs.Name,
			"tags": obs.Tags,
		}).Logf(m.level, "%s = %.1f", obs.Name, obs.Value)
	}
	log.Debugf("в лог выведено %d метрик", len(cycle.Observations))
	return nil
}
