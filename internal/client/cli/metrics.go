package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/healthdash/internal/client/metrics"
	"github.com/dmitrijs2005/healthdash/internal/client/models"
)

// readStatsPatch asks for each of the four values. rule constrains the
// numbers entered.
func (a *App) readStatsPatch(rule string) (models.StatsPatch, error) {
	var p models.StatsPatch
	fields := []struct {
		name string
		dst  **float64
	}{
		{"steps", &p.Steps},
		{"calories", &p.Calories},
		{"water", &p.Water},
		{"sleep", &p.Sleep},
	}
	for _, fl := range fields {
		raw, err := getSimpleText(a.reader, fmt.Sprintf("%s (empty to keep)", fl.name), a.out)
		if err != nil {
			return p, err
		}
		v, err := parseAmount(fl.name, raw, rule)
		if err != nil {
			return p, err
		}
		*fl.dst = v
	}
	return p, nil
}

// Stats updates today's values.
func (a *App) Stats(ctx context.Context) error {
	p, err := a.readStatsPatch("gte=0")
	if err != nil {
		return err
	}
	a.store.UpdateStats(p)
	return a.Progress(ctx)
}

// Goals updates the targets. Goals must be positive.
func (a *App) Goals(ctx context.Context) error {
	p, err := a.readStatsPatch("gt=0")
	if err != nil {
		return err
	}
	a.store.UpdateGoals(p)
	return a.Progress(ctx)
}

// Progress prints each stat against its goal.
func (a *App) Progress(ctx context.Context) error {
	p := a.store.Progress()

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STAT\tVALUE\tGOAL\tPROGRESS\t")
	rows := []struct {
		name string
		r    metrics.Ratio
	}{
		{"steps", p.Steps},
		{"calories", p.Calories},
		{"water", p.Water},
		{"sleep", p.Sleep},
	}
	for _, row := range rows {
		mark := ""
		if row.r.Exceeded {
			mark = " (exceeded)"
		}
		fmt.Fprintf(tw, "%s\t%g\t%g\t%.0f%%%s\t\n", row.name, row.r.Value, row.r.Goal, row.r.Percent, mark)
	}
	return tw.Flush()
}
