package thermal

import (
	"io/ioutil"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kirsrus/hosttemp/service"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultRoot = "/sys/class/thermal"
	zonePrefix  = "thermal_zone"
)

// Thermal чтение температурных зон ядра из sysfs. Имплементирует ThermalSvc.
// Инициируется через NewThermal
type Thermal struct {
	log   *logrus.Entry
	root  string
	zones []string
}

// ConfigThermal конфигурация Thermal
type ConfigThermal struct {
	Log *logrus.Logger
	// Корень с директориями thermal_zoneN
	Root string `conform:"trim"`
	// Опрашиваемые зоны. Пустой список - все найденные в Root
	Zones []string
}

// NewThermal конструктор Thermal
func NewThermal(config *ConfigThermal) (service.ThermalSvc, error) {
	if config == nil {
		return nil, errors.New("не задана конфигурация config")
	}
	if config.Log == nil {
		config.Log = logrus.New()
		config.Log.Out = ioutil.Discard
	}
	res := &Thermal{
		log: config.Log.WithFields(map[string]interface{}{
			"module": "thermal",
			"scope":  "service",
		}),
		root:  defaultRoot,
		zones: config.Zones,
	}
	if config.Root != "" {
		res.root = config.Root
	}
	return res, nil
}

// Zones возвращает сконфигурированные зоны или, если их нет, все найденные зоны,
// отсортированные по номеру
func (m Thermal) Zones() ([]string, error) {
	if len(m.zones) != 0 {
		return m.zones, nil
	}
	dirs, err := filepath.Glob(filepath.Join(m.root, zonePrefix+"*"))
	if err != nil {
		return nil, errors.Trace(err)
	}
	zones := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		zones = append(zones, strings.TrimPrefix(filepath.Base(dir), zonePrefix))
	}
	sort.Slice(zones, func(i, j int) bool {
		a, errA := strconv.Atoi(zones[i])
		b, errB := strconv.Atoi(zones[j])
		if errA != nil || errB != nil {
			return zones[i] < zones[j]
		}
		return a < b
	})
	return zones, nil
}

// Read читает thermal_zone<zone>/temp. Значение в тысячных долях градуса
func (m Thermal) Read(zone string) (float64, error) {
	path := filepath.Join(m.root, zonePrefix+zone, "temp")
	data, err := ioutil.ReadFile(path)
	if err != nil {
		m.log.Debugf("невозможно прочитать температуру из %s: %v", path, err)
		return 0, errors.Trace(err)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		m.log.Debugf("некорректное значение в %s: %v", path, err)
		return 0, errors.Annotatef(err, "некорректное значение в %s", path)
	}
	return float64(v), nil
}
