package web

import (
	"sort"
	"strings"

	"github.com/kirsrus/hosttemp/model"
	"github.com/kirsrus/hosttemp/pkg/tool"

	"github.com/prometheus/client_golang/prometheus"
)

const metricHelp = "Температура в градусах Цельсия"

// collector отдаёт метрики последнего цикла из кэша Web. Описания метрик заранее
// неизвестны, поэтому Describe ничего не передаёт (unchecked collector)
type collector struct {
	web *Web
}

// Describe implements prometheus.Collector
func (m *collector) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector
func (m *collector) Collect(ch chan<- prometheus.Metric) {
	cycle, ok := m.web.lastCycle()
	if !ok {
		return
	}
	for _, s := range Samples(cycle.Observations) {
		desc := prometheus.NewDesc(s.Name, metricHelp, s.LabelNames, nil)
		metric, err := prometheus.NewConstMetric(desc, prometheus.GaugeValue, s.Value, s.LabelValues...)
		if err != nil {
			// Одна некорректная метрика не должна ломать выдачу остальных
			m.web.log.Warnf("метрика %s пропущена: %v", s.Name, err)
			continue
		}
		ch <- metric
	}
}

// Sample метрика в терминах Prometheus
type Sample struct {
	Name        string
	LabelNames  []string
	LabelValues []string
	Value       float64
}

// Samples переводит метрики цикла в метрики Prometheus: точки в имени заменяются
// на "_", теги "ключ:значение" становятся метками. Из метрик с одинаковым именем и
// набором меток остаётся последняя. Порядок первого появления сохраняется
func Samples(observations []model.Observation) []Sample {
	res := make([]Sample, 0, len(observations))
	index := make(map[string]int)
	for _, obs := range observations {
		s := Sample{
			Name:  strings.ReplaceAll(obs.Name, ".", "_"),
			Value: obs.Value,
		}
		labels := make(map[string]string)
		for _, tag := range obs.Tags {
			k, v := tool.SplitTag(tag)
			labels[k] = v
		}
		s.LabelNames = make([]string, 0, len(labels))
		for k := range labels {
			s.LabelNames = append(s.LabelNames, k)
		}
		sort.Strings(s.LabelNames)
		s.LabelValues = make([]string, 0, len(labels))
		for _, k := range s.LabelNames {
			s.LabelValues = append(s.LabelValues, labels[k])
		}

		key := s.Name + "\x00" + strings.Join(s.LabelNames, "\x00") + "\x00" + strings.Join(s.LabelValues, "\x00")
		if i, ok := index[key]; ok {
			res[i] = s
			continue
		}
		index[key] = len(res)
		res = append(res, s)
	}
	return res
}
