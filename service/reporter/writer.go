package reporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kirsrus/hosttemp/model"
	"github.com/kirsrus/hosttemp/service"

	"github.com/juju/errors"
)

// Writer приёмник метрик, печатающий по одной метрике в строке:
//   custom.temperature.temp 46.0 sensor:coretemp-isa-0000,component:Core 0
type Writer struct {
	out io.Writer
}

// NewWriter конструктор Writer
func NewWriter(out io.Writer) (service.ReporterSvc, error) {
	if out == nil {
		return nil, errors.New("не указан поток вывода")
	}
	return &Writer{out: out}, nil
}

// Report печатает метрики цикла
func (m Writer) Report(cycle model.Cycle) error {
	for _, obs := range cycle.Observations {
		if _, err := fmt.Fprintln(m.out, FormatObservation(obs)); err != nil {
			return errors.Annotate(err, "ошибка вывода метрики")
		}
	}
	return nil
}

// FormatObservation текстовое представление метрики
func FormatObservation(obs model.Observation) string {
	return fmt.Sprintf("%s %s %s", obs.Name, strconv.FormatFloat(obs.Value, 'f', -1, 64), strings.Join(obs.Tags, ","))
}
