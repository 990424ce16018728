package service

import (
	"context"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"bikeshare-go/constant"
	"bikeshare-go/internal/apperrors"
	"bikeshare-go/internal/i18n"
)

// 图表名称
const (
	ChartSeason  = "season"
	ChartMonth   = "month"
	ChartWeekday = "weekday"
	ChartWeather = "weather"
	ChartUsers   = "users"

	chartWidth  = 800
	chartHeight = 450
)

// ChartNames 支持的图表
var ChartNames = []string{ChartSeason, ChartMonth, ChartWeekday, ChartWeather, ChartUsers}

// RenderChart 按当前筛选渲染 PNG 图表；metric 仅对 season 有效（mean|sum）
func RenderChart(ctx context.Context, name, metric string, f Filter, w io.Writer) error {
	if err := f.Validate(); err != nil {
		return err
	}
	tr := i18n.Translator(ctx)
	_, result := FilterCurrent(f)

	var renderer interface {
		Render(rp chart.RendererProvider, w io.Writer) error
	}
	switch name {
	case ChartSeason:
		stats := BySeason(result.Records)
		if len(stats) == 0 {
			return apperrors.NotFoundError("error.chart_no_data")
		}
		LocalizeGroups(stats, tr)
		title := "chart.season.mean"
		if metric == "sum" {
			title = "chart.season.sum"
		}
		renderer = barChart(tr(title), tr("chart.axis.rentals"), stats, metric == "sum")
	case ChartWeekday:
		stats := ByWeekday(result.Records)
		if len(stats) == 0 {
			return apperrors.NotFoundError("error.chart_no_data")
		}
		LocalizeGroups(stats, tr)
		renderer = barChart(tr("chart.weekday"), tr("chart.axis.rentals"), stats, false)
	case ChartWeather:
		stats, _, _ := BuildWeatherView(result.Records)
		if len(stats) == 0 {
			return apperrors.NotFoundError("error.chart_no_data")
		}
		LocalizeGroups(stats, tr)
		renderer = barChart(tr("chart.weather"), tr("chart.axis.rentals"), stats, false)
	case ChartMonth:
		stats := ByMonth(result.Records)
		if len(stats) == 0 {
			return apperrors.NotFoundError("error.chart_no_data")
		}
		LocalizeGroups(stats, tr)
		renderer = monthChart(tr("chart.month"), tr("chart.axis.rentals"), stats, tr)
	case ChartUsers:
		if len(result.Records) == 0 {
			return apperrors.NotFoundError("error.chart_no_data")
		}
		points := WeeklyUserTrend(result.Records)
		LocalizeTrend(points, tr)
		renderer = usersChart(tr("chart.users"), tr("chart.axis.rentals"), points, tr)
	default:
		return apperrors.NotFoundError("error.chart_unknown")
	}

	if err := renderer.Render(chart.PNG, w); err != nil {
		return apperrors.SystemError("error.system", fmt.Errorf("render %s chart: %w", name, err))
	}
	return nil
}

func barChart(title, yName string, stats []GroupStat, useSum bool) *chart.BarChart {
	bars := make([]chart.Value, len(stats))
	maxValue := 0.0
	for i, s := range stats {
		v := s.Mean
		if useSum {
			v = float64(s.Sum)
		}
		if v > maxValue {
			maxValue = v
		}
		bars[i] = chart.Value{Value: v, Label: s.Label}
	}

	return &chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   60,
		BarSpacing: 20,
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: 0, Max: upperBound(maxValue)},
		},
		Bars: bars,
	}
}

func monthChart(title, yName string, stats []GroupStat, tr func(string) string) *chart.Chart {
	xs := make([]float64, len(stats))
	ys := make([]float64, len(stats))
	maxValue := 0.0
	for i, s := range stats {
		xs[i] = float64(s.Key)
		ys[i] = s.Mean
		if s.Mean > maxValue {
			maxValue = s.Mean
		}
	}

	ticks := make([]chart.Tick, 0, len(constant.MonthOrder))
	for _, m := range constant.MonthOrder {
		label := tr(constant.MonthMessageID(m))
		if len([]rune(label)) > 3 {
			label = string([]rune(label)[:3])
		}
		ticks = append(ticks, chart.Tick{Value: float64(m), Label: label})
	}

	return &chart.Chart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Width:      chartWidth,
		Height:     chartHeight,
		XAxis:      chart.XAxis{Range: &chart.ContinuousRange{Min: 1, Max: 12}, Ticks: ticks},
		YAxis:      chart.YAxis{Name: yName, Range: &chart.ContinuousRange{Min: 0, Max: upperBound(maxValue)}},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: yName, XValues: xs, YValues: ys, Style: lineStyle(chart.ColorBlue)},
		},
	}
}

func usersChart(title, yName string, points []UserTrendPoint, tr func(string) string) *chart.Chart {
	xs := make([]float64, len(points))
	casual := make([]float64, len(points))
	registered := make([]float64, len(points))
	ticks := make([]chart.Tick, len(points))
	maxValue := 0.0
	for i, p := range points {
		xs[i] = float64(p.Weekday)
		casual[i] = p.Casual
		registered[i] = p.Registered
		ticks[i] = chart.Tick{Value: float64(p.Weekday), Label: p.Label}
		if p.Casual > maxValue {
			maxValue = p.Casual
		}
		if p.Registered > maxValue {
			maxValue = p.Registered
		}
	}

	ch := &chart.Chart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Width:      chartWidth,
		Height:     chartHeight,
		XAxis:      chart.XAxis{Range: &chart.ContinuousRange{Min: 0, Max: 6}, Ticks: ticks},
		YAxis:      chart.YAxis{Name: yName, Range: &chart.ContinuousRange{Min: 0, Max: upperBound(maxValue)}},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: tr("user.casual"), XValues: xs, YValues: casual, Style: lineStyle(chart.ColorOrange)},
			chart.ContinuousSeries{Name: tr("user.registered"), XValues: xs, YValues: registered, Style: lineStyle(chart.ColorBlue)},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(ch)}
	return ch
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    4,
	}
}

// upperBound 给 y 轴留 10% 余量；全为 0 时返回 1，避免零宽区间
func upperBound(maxValue float64) float64 {
	if maxValue <= 0 {
		return 1
	}
	return maxValue * 1.1
}
