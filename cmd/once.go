package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/kirsrus/hosttemp/controller/manager"
	"github.com/kirsrus/hosttemp/service"
	"github.com/kirsrus/hosttemp/service/reporter"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Один цикл сбора с выводом метрик на консоль",
	RunE: func(cmd *cobra.Command, args []string) error {
		return errors.Trace(runOnce())
	},
}

func runOnce() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	assemblerCtl, err := newAssembler()
	if err != nil {
		return errors.Trace(err)
	}
	writer, err := reporter.NewWriter(os.Stdout)
	if err != nil {
		return errors.Trace(err)
	}

	managerCtl, err := manager.NewManager(ctx, &manager.ConfigManager{
		Log:          log,
		AssemblerCtl: assemblerCtl,
		Reporters:    []service.ReporterSvc{writer},
	})
	if err != nil {
		return errors.Trace(err)
	}

	_, err = managerCtl.RunOnce(ctx)
	return errors.Trace(err)
}
