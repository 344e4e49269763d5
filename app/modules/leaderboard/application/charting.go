package leaderboardservice

import (
	"bytes"
	"context"
	"slices"

	leaderboarddomain "github.com/Black-And-White-Club/fitcomp/app/modules/leaderboard/domain"
	"github.com/google/uuid"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// maxChartSeries keeps the legend readable for large competitions.
const maxChartSeries = 10

// RenderChart plots cumulative points of the top members over the days of
// the competition.
func (s *LeaderboardService) RenderChart(ctx context.Context, competitionID uuid.UUID) ([]byte, error) {
	stats, err := s.GetCompetitionStats(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	return GenerateLeaderboardChart(stats)
}

// GenerateLeaderboardChart draws one cumulative line per ranked member, with
// days ago on the x axis so today is on the right.
func GenerateLeaderboardChart(stats *CompetitionStats) ([]byte, error) {
	var series []chart.Series
	maxY := 1.0
	for _, entry := range stats.Leaderboard.Individual {
		if entry.Rank == nil || len(series) == maxChartSeries {
			break
		}
		buckets := stats.Timeseries.User[entry.UserID]
		if len(buckets) == 0 {
			continue
		}
		cs := cumulativeSeries(entry.Username, buckets, len(series))
		maxY = max(maxY, slices.Max(cs.YValues))
		series = append(series, cs)
	}
	if len(series) == 0 {
		return renderNoDataPlaceholder()
	}

	graph := chart.Chart{
		Title:  stats.Competition.Name,
		Width:  900,
		Height: 450,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Days ago",
			ValueFormatter: func(v any) string { return chart.IntValueFormatter(-v.(float64)) },
		},
		YAxis: chart.YAxis{
			Name:  "Points",
			Range: &chart.ContinuousRange{Min: 0, Max: maxY},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// cumulativeSeries turns sparse buckets into a running total starting from
// zero the day before the first bucket. X values are negated days ago.
func cumulativeSeries(name string, buckets []leaderboarddomain.Bucket, index int) chart.ContinuousSeries {
	ordered := slices.Clone(buckets)
	slices.SortFunc(ordered, func(a, b leaderboarddomain.Bucket) int { return b.DaysAgo - a.DaysAgo })

	xs := []float64{float64(-ordered[0].DaysAgo - 1)}
	ys := []float64{0}
	running := 0.0
	for _, b := range ordered {
		running += b.Total.InexactFloat64()
		xs = append(xs, float64(-b.DaysAgo))
		ys = append(ys, running)
	}
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: chart.GetDefaultColor(index),
			StrokeWidth: 2,
			DotWidth:    3,
			DotColor:    chart.GetDefaultColor(index),
		},
	}
}

func renderNoDataPlaceholder() ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No points yet"
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(drawing.ColorBlack)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
