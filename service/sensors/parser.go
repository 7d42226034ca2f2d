package sensors

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kirsrus/hosttemp/model"
	"github.com/kirsrus/hosttemp/pkg/tool"
)

var (
	// Строка показания: "<метка>: +45.0°C ..."
	tempRe = regexp.MustCompile(`(.+?):\s*\+?(-?\d+\.\d+)°C`)
	lowRe  = regexp.MustCompile(`low\s*=\s*\+?(-?\d+\.\d+)`)
	highRe = regexp.MustCompile(`high\s*=\s*\+?(-?\d+\.\d+)`)
	critRe = regexp.MustCompile(`crit\s*=\s*\+?(-?\d+\.\d+)`)
)

// ParseSensors разбирает текстовый вывод утилиты sensors. Блоки отчёта разделены
// пустой строкой, первая строка блока - имя группы (чипа). Строки без температуры
// (вентиляторы, напряжения, "Adapter: ...") пропускаются. Ошибок функция не возвращает:
// всё, что не разобралось, просто не попадает в результат.
func ParseSensors(report string) model.Sensors {
	sensors := make(model.Sensors)

	report = strings.TrimSpace(strings.ReplaceAll(report, "\r\n", "\n"))
	if report == "" {
		return sensors
	}

	for _, block := range strings.Split(report, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		lines := strings.Split(strings.TrimSpace(block), "\n")
		group := strings.TrimSpace(lines[0])
		if _, ok := sensors[group]; !ok {
			sensors[group] = make([]model.SensorReading, 0)
		}

		for i, line := range lines[1:] {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			reading, ok := parseReading(line)
			if !ok {
				continue
			}
			reading.SensorGroup = group

			// Пороги могут быть перенесены на следующую строку отчёта:
			//   Composite:    +36.9°C  (low  = -273.1°C, high = +81.8°C)
			//                          (crit = +84.8°C)
			full := line
			if i+2 < len(lines) {
				full += strings.TrimSpace(lines[i+2])
			}
			reading.Low = findValue(lowRe, full)
			reading.High = findValue(highRe, full)
			reading.Crit = findValue(critRe, full)

			sensors[group] = append(sensors[group], reading)
		}
	}

	return sensors
}

func parseReading(line string) (model.SensorReading, bool) {
	match := tempRe.FindStringSubmatch(line)
	if match == nil {
		return model.SensorReading{}, false
	}
	temp, err := strconv.ParseFloat(match[2], 64)
	if err != nil {
		return model.SensorReading{}, false
	}
	return model.SensorReading{
		Component:   strings.TrimSpace(match[1]),
		Temperature: temp,
	}, true
}

func findValue(re *regexp.Regexp, text string) *float64 {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	v, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}
	return tool.Float(v)
}
