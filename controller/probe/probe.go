package probe

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/kirsrus/hosttemp/model"
	"github.com/kirsrus/hosttemp/pkg/validator"
	"github.com/kirsrus/hosttemp/service"
	"github.com/kirsrus/hosttemp/service/smart"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	devDir        = "/dev"
	devicePattern = `^sd[a-z]$`
)

// Probe опрос температуры всех накопителей. Для каждого устройства запускается
// отдельный процесс диагностики, все процессы запускаются до начала ожидания
// любого из них. Отказ одного устройства не влияет на остальные.
// Инициализируется через NewProbe
type Probe struct {
	log *logrus.Entry

	diagnosticSvc service.DiagnosticSvc

	devDir  string
	pattern *regexp.Regexp
}

// ConfigProbe конфигурация Probe
type ConfigProbe struct {
	Log *logrus.Logger
	// Директория с устройствами
	DevDir string `conform:"trim"`
	// Шаблон имён устройств
	Pattern string `conform:"trim" validate:"omitempty,regexp"`
}

// NewProbe конструктор Probe
func NewProbe(diagnosticSvc service.DiagnosticSvc, config *ConfigProbe) (*Probe, error) {
	if config == nil {
		return nil, errors.New("не установлен config")
	}
	if diagnosticSvc == nil {
		return nil, errors.New("не указана служба diagnosticSvc")
	}
	if err := validator.Get().Validate(config); err != nil {
		return nil, errors.Annotate(err, "ошибка в конфигурации")
	}
	if config.Log == nil {
		config.Log = logrus.New()
		config.Log.Out = ioutil.Discard
	}

	probe := Probe{
		log: config.Log.WithFields(map[string]interface{}{
			"module": "probe",
			"scope":  "controller",
		}),
		diagnosticSvc: diagnosticSvc,
		devDir:        devDir,
		pattern:       regexp.MustCompile(devicePattern),
	}
	if config.DevDir != "" {
		probe.devDir = config.DevDir
	}
	if config.Pattern != "" {
		probe.pattern = regexp.MustCompile(config.Pattern)
	}
	return &probe, nil
}

// Discover возвращает имена устройств из devDir, подходящие под шаблон, в
// лексикографическом порядке
func (m Probe) Discover() ([]string, error) {
	entries, err := os.ReadDir(m.devDir)
	if err != nil {
		return nil, errors.Annotatef(err, "ошибка чтения %s", m.devDir)
	}
	devices := make([]string, 0)
	for _, entry := range entries {
		if m.pattern.MatchString(entry.Name()) {
			devices = append(devices, entry.Name())
		}
	}
	sort.Strings(devices)
	return devices, nil
}

// Outcomes опрашивает все найденные устройства и возвращает исход по каждому из них
// в порядке обнаружения, включая отказы и устройства без данных
func (m Probe) Outcomes(ctx context.Context) []model.DriveTemperature {
	devices, err := m.Discover()
	if err != nil {
		m.log.Warn(err)
		return nil
	}
	m.log.Infof("найдено %d накопителей для проверки", len(devices))

	results := make([]model.DriveTemperature, len(devices))
	processes := make([]service.Process, len(devices))

	// Запускаем все процессы сразу, ожидание начинается только после запуска последнего
	for i, device := range devices {
		results[i].Device = device
		proc, err := m.diagnosticSvc.Start(ctx, filepath.Join(m.devDir, device))
		if err != nil {
			results[i].Err = err
			continue
		}
		processes[i] = proc
	}

	// Каждая горутина пишет только в свою ячейку results и всегда возвращает nil,
	// поэтому отказ одного устройства не отменяет ожидание остальных
	g := new(errgroup.Group)
	for i := range devices {
		if processes[i] == nil {
			continue
		}
		i := i
		g.Go(func() error {
			results[i] = m.collect(results[i].Device, processes[i])
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		m.logOutcome(res)
	}
	return results
}

// ProbeAllDrives возвращает температуры только тех устройств, по которым есть хотя бы
// одно значение. Отказавшие устройства и устройства без данных в результат не попадают
func (m Probe) ProbeAllDrives(ctx context.Context) map[string]model.DriveTemperature {
	drives := make(map[string]model.DriveTemperature)
	for _, res := range m.Outcomes(ctx) {
		if res.HasData() {
			drives[res.Device] = res
		}
	}
	m.log.Infof("собраны температуры %d накопителей", len(drives))
	return drives
}

// Ожидание завершения одного процесса и разбор его вывода
func (m Probe) collect(device string, proc service.Process) model.DriveTemperature {
	res := model.DriveTemperature{Device: device}

	out, err := proc.Wait()
	if err != nil {
		res.Err = err
		return res
	}
	if out == nil {
		res.Err = errors.Trace(model.NewCommandError(model.KindCommandFailed, device, errors.New("нет результата выполнения")))
		return res
	}
	if out.ExitStatus != 0 {
		cmdErr := model.NewCommandError(model.KindCommandFailed, device, nil)
		cmdErr.ExitStatus = out.ExitStatus
		cmdErr.Stderr = strings.TrimSpace(string(out.Stderr))
		res.Err = errors.Trace(cmdErr)
		return res
	}

	doc, err := smart.Decode(device, out.Stdout)
	if err != nil {
		res.Err = err
		return res
	}
	temp, ok := smart.ExtractDriveTemperature(doc)
	if !ok {
		return res
	}
	res.Current = temp.Current
	res.Crit = temp.Crit
	return res
}

func (m Probe) logOutcome(res model.DriveTemperature) {
	log := m.log.WithField("device", res.Device)
	switch res.Kind() {
	case model.KindNone:
		log.Debug("температура получена")
	case model.KindNoData:
		log.Warn("в выводе диагностики нет данных о температуре")
	case model.KindCommandUnavailable:
		log.Warnf("не удалось запустить диагностику: %v", res.Err)
	case model.KindCommandFailed:
		log.Warnf("диагностика завершилась с ошибкой: %v", res.Err)
	case model.KindMalformedOutput:
		log.Warnf("не удалось разобрать JSON вывода диагностики: %v", res.Err)
	default:
		log.Warn(res.Err)
	}
}
