package main

import (
	"time"

	"github.com/kirsrus/hosttemp/controller/assembler"
	"github.com/kirsrus/hosttemp/controller/probe"
	"github.com/kirsrus/hosttemp/service/sensors"
	"github.com/kirsrus/hosttemp/service/smart"
	"github.com/kirsrus/hosttemp/service/thermal"

	"github.com/juju/errors"
)

// Сборка источников телеметрии и сборщика по конфигурации
func newAssembler() (*assembler.Assembler, error) {
	sensorsSvc, err := sensors.NewSensors(&sensors.ConfigSensors{
		Log:     log,
		Command: cfg.Sensors.Command,
		Timeout: time.Duration(cfg.Sensors.Timeout) * time.Second,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	thermalSvc, err := thermal.NewThermal(&thermal.ConfigThermal{
		Log:   log,
		Root:  cfg.Thermal.Root,
		Zones: cfg.Thermal.Zones,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	smartctlSvc, err := smart.NewSmartctl(&smart.ConfigSmartctl{
		Log:     log,
		Command: cfg.Drives.Command,
		Timeout: time.Duration(cfg.Drives.Timeout) * time.Second,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	probeCtl, err := probe.NewProbe(smartctlSvc, &probe.ConfigProbe{
		Log:     log,
		DevDir:  cfg.Drives.DevDir,
		Pattern: cfg.Drives.Pattern,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	res, err := assembler.NewAssembler(sensorsSvc, thermalSvc, probeCtl, &assembler.ConfigAssembler{
		Log:       log,
		Namespace: cfg.Metric.Namespace,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return res, nil
}
