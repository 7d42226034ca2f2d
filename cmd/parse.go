package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"sort"

	"github.com/kirsrus/hosttemp/service/sensors"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [файл]",
	Short: "Разбор отчёта sensors из файла или stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Trace(err)
			}
			defer f.Close()
			in = f
		}
		return errors.Trace(runParse(in, cmd.OutOrStdout()))
	},
}

func runParse(in io.Reader, out io.Writer) error {
	data, err := ioutil.ReadAll(in)
	if err != nil {
		return errors.Annotate(err, "ошибка чтения отчёта")
	}
	report := sensors.ParseSensors(string(data))

	groups := make([]string, 0, len(report))
	for group := range report {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	for _, group := range groups {
		fmt.Fprintln(out, group)
		for _, r := range report[group] {
			line := fmt.Sprintf("  %s: %.1f", r.Component, r.Temperature)
			if r.Low != nil {
				line += fmt.Sprintf(" low=%.1f", *r.Low)
			}
			if r.High != nil {
				line += fmt.Sprintf(" high=%.1f", *r.High)
			}
			if r.Crit != nil {
				line += fmt.Sprintf(" crit=%.1f", *r.Crit)
			}
			fmt.Fprintln(out, line)
		}
	}
	return nil
}
