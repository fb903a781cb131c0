// Package chart renders balance reports as standalone HTML pages.
package chart

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/kilianp07/teambalance/core/balance"
)

// TeamsHTML draws one bar per team for the total score and a second series
// for the average skill.
func TeamsHTML(r balance.Report) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Team balance",
			Subtitle: fmt.Sprintf("score spread %.2f, size spread %d", r.ScoreSpread, r.SizeSpread),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Team"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Score"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	xAxis := make([]string, len(r.Teams))
	totals := make([]opts.BarData, len(r.Teams))
	skills := make([]opts.BarData, len(r.Teams))
	for i, t := range r.Teams {
		xAxis[i] = fmt.Sprintf("Team %d (%d)", t.Index+1, len(t.Players))
		totals[i] = opts.BarData{Value: t.Metrics.TotalScore}
		skills[i] = opts.BarData{Value: t.Metrics.AvgSkill}
	}
	bar.SetXAxis(xAxis).
		AddSeries("Total score", totals).
		AddSeries("Average skill", skills)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render chart: %v", err)
	}
	return buf.String(), nil
}
