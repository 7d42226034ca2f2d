package assembler

import (
	"context"
	"io/ioutil"
	"sort"
	"strings"
	"sync"

	"github.com/kirsrus/hosttemp/controller"
	"github.com/kirsrus/hosttemp/model"
	"github.com/kirsrus/hosttemp/pkg/tool"
	"github.com/kirsrus/hosttemp/pkg/validator"
	"github.com/kirsrus/hosttemp/service"
	"github.com/kirsrus/hosttemp/service/sensors"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	namespace = "custom"
	// Подстрока в имени блока sensors, по которой блок считается NVMe накопителем
	nvmeMarker = "nvme"
)

// Assembler сборщик телеметрии: отчёт sensors, температурные зоны и опрос накопителей
// собираются независимо друг от друга и сводятся в один плоский список метрик.
// Инициализируется через NewAssembler
type Assembler struct {
	log *logrus.Entry

	sensorsSvc service.SensorsSvc
	thermalSvc service.ThermalSvc
	probeCtl   controller.ProbeCtl

	namespace string
}

// ConfigAssembler конфигурация Assembler
type ConfigAssembler struct {
	Log *logrus.Logger
	// Префикс имён метрик
	Namespace string `conform:"trim" validate:"omitempty,namespace"`
}

// NewAssembler конструктор Assembler. Любой из источников может быть nil, тогда
// он просто не опрашивается
func NewAssembler(sensorsSvc service.SensorsSvc, thermalSvc service.ThermalSvc, probeCtl controller.ProbeCtl, config *ConfigAssembler) (*Assembler, error) {
	if config == nil {
		return nil, errors.New("не установлен config")
	}
	if err := validator.Get().Validate(config); err != nil {
		return nil, errors.Annotate(err, "ошибка в конфигурации")
	}
	if config.Log == nil {
		config.Log = logrus.New()
		config.Log.Out = ioutil.Discard
	}

	assembler := Assembler{
		log: config.Log.WithFields(map[string]interface{}{
			"module": "assembler",
			"scope":  "controller",
		}),
		sensorsSvc: sensorsSvc,
		thermalSvc: thermalSvc,
		probeCtl:   probeCtl,
		namespace:  namespace,
	}
	if config.Namespace != "" {
		assembler.namespace = config.Namespace
	}
	return &assembler, nil
}

// Collect выполняет один цикл сбора. Отказ любого источника приводит лишь к
// отсутствию его метрик. Ошибка возвращается только при отмене контекста
func (m Assembler) Collect(ctx context.Context) ([]model.Observation, error) {
	var (
		mu     sync.Mutex
		report model.Sensors
		zones  []model.ThermalZone
		drives map[string]model.DriveTemperature
	)

	g := new(errgroup.Group)

	if m.sensorsSvc != nil {
		g.Go(func() error {
			text, err := m.sensorsSvc.Report(ctx)
			if err != nil {
				m.log.Errorf("невозможно выполнить команду sensors: %v", err)
				return nil
			}
			parsed := sensors.ParseSensors(text)
			mu.Lock()
			report = parsed
			mu.Unlock()
			return nil
		})
	}

	if m.thermalSvc != nil {
		g.Go(func() error {
			read := m.readThermal()
			mu.Lock()
			zones = read
			mu.Unlock()
			return nil
		})
	}

	if m.probeCtl != nil {
		g.Go(func() error {
			probed := m.probeCtl.ProbeAllDrives(ctx)
			mu.Lock()
			drives = probed
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}

	observations := make([]model.Observation, 0)
	observations = append(observations, SensorObservations(m.namespace, report)...)
	observations = append(observations, ThermalObservations(m.namespace, zones)...)
	observations = append(observations, DriveObservations(m.namespace, drives)...)
	m.log.Debugf("собрано %d метрик", len(observations))
	return observations, nil
}

// Чтение всех доступных температурных зон. Нечитаемые зоны пропускаются
func (m Assembler) readThermal() []model.ThermalZone {
	ids, err := m.thermalSvc.Zones()
	if err != nil {
		m.log.Warnf("ошибка получения списка температурных зон: %v", err)
		return nil
	}
	zones := make([]model.ThermalZone, 0, len(ids))
	for _, id := range ids {
		v, err := m.thermalSvc.Read(id)
		if err != nil {
			continue
		}
		zones = append(zones, model.ThermalZone{ID: id, MilliCelsius: v})
	}
	return zones
}

// SensorObservations метрики по показаниям sensors: <ns>.temperature.temp|low|high|crit
// с тегами sensor и component. Для блоков NVMe дополнительно <ns>.temperature.nvme.*
// с тегами drive и component. Блоки обходятся в порядке имён
func SensorObservations(ns string, report model.Sensors) []model.Observation {
	groups := make([]string, 0, len(report))
	for group := range report {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	res := make([]model.Observation, 0)
	for _, group := range groups {
		for _, r := range report[group] {
			tags := []string{tool.Tag("sensor", group), tool.Tag("component", r.Component)}
			res = appendReading(res, ns+".temperature.", "temp", r, tags)

			if strings.Contains(group, nvmeMarker) {
				nvmeTags := []string{tool.Tag("drive", group), tool.Tag("component", r.Component)}
				res = appendReading(res, ns+".temperature.nvme.", "current", r, nvmeTags)
			}
		}
	}
	return res
}

func appendReading(res []model.Observation, prefix, current string, r model.SensorReading, tags []string) []model.Observation {
	res = append(res, observation(prefix+current, r.Temperature, tags))
	values := []struct {
		name  string
		value *float64
	}{
		{"low", r.Low},
		{"high", r.High},
		{"crit", r.Crit},
	}
	for _, v := range values {
		if v.value != nil {
			res = append(res, observation(prefix+v.name, *v.value, tags))
		}
	}
	return res
}

// ThermalObservations метрики температурных зон: <ns>.temperature.cpu с тегом cpu:<зона>,
// значение переводится из тысячных долей в градусы
func ThermalObservations(ns string, zones []model.ThermalZone) []model.Observation {
	res := make([]model.Observation, 0, len(zones))
	for _, zone := range zones {
		res = append(res, observation(ns+".temperature.cpu", zone.MilliCelsius/1000, []string{tool.Tag("cpu", zone.ID)}))
	}
	return res
}

// DriveObservations метрики накопителей: <ns>.temperature.hdd.current|crit с тегом drive,
// только для присутствующих значений. Накопители обходятся в порядке имён
func DriveObservations(ns string, drives map[string]model.DriveTemperature) []model.Observation {
	devices := make([]string, 0, len(drives))
	for device := range drives {
		devices = append(devices, device)
	}
	sort.Strings(devices)

	res := make([]model.Observation, 0)
	for _, device := range devices {
		drive := drives[device]
		tags := []string{tool.Tag("drive", device)}
		if drive.Current != nil {
			res = append(res, observation(ns+".temperature.hdd.current", *drive.Current, tags))
		}
		if drive.Crit != nil {
			res = append(res, observation(ns+".temperature.hdd.crit", *drive.Crit, tags))
		}
	}
	return res
}

// У каждой метрики своя копия тегов
func observation(name string, value float64, tags []string) model.Observation {
	return model.Observation{
		Name:  name,
		Value: value,
		Tags:  append([]string{}, tags...),
	}
}
