package service

import (
	"math"
	"sort"

	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"bikeshare-go/constant"
	"bikeshare-go/internal/model"
)

// Description 描述性统计，对应 describe() 的输出
type Description struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// GroupDescription 一个分组的统计表行
type GroupDescription struct {
	Key       int     `json:"key"`
	Name      string  `json:"name"`
	Label     string  `json:"label"`
	MessageID string  `json:"-"`
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	// Values 为箱线图/小提琴图的原始数据
	Values []float64 `json:"values"`
}

// HistogramBin 等宽直方图的一个区间 [Lower, Upper)
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// DensityPoint KDE 曲线上的一点
type DensityPoint struct {
	X       float64 `json:"x"`
	Density float64 `json:"density"`
}

// Describe 计算 count/mean/std/min/四分位/max；少于 2 个值时 std 为 0
func Describe(values []float64) Description {
	if len(values) == 0 {
		return Description{}
	}
	s := series.Floats(values)
	d := Description{
		Count:  s.Len(),
		Mean:   s.Mean(),
		Min:    s.Min(),
		Q1:     s.Quantile(0.25),
		Median: s.Median(),
		Q3:     s.Quantile(0.75),
		Max:    s.Max(),
	}
	if d.Count > 1 {
		d.Std = s.StdDev()
	}
	return d
}

// GroupDescribe 按天气分组的统计表，顺序 1..4，只包含出现过的天气
func GroupDescribe(records []model.DailyRecord) []GroupDescription {
	values := make(map[int][]float64)
	for _, r := range records {
		values[r.Weather] = append(values[r.Weather], float64(r.Count))
	}

	out := make([]GroupDescription, 0, len(values))
	for _, code := range constant.WeatherOrder {
		vs, ok := values[code]
		if !ok {
			continue
		}
		d := Describe(vs)
		out = append(out, GroupDescription{
			Key:       code,
			Name:      constant.WeatherName(code),
			Label:     constant.WeatherName(code),
			MessageID: constant.WeatherMessageID(code),
			Count:     d.Count,
			Mean:      d.Mean,
			Median:    d.Median,
			Min:       d.Min,
			Max:       d.Max,
			Values:    vs,
		})
	}
	return out
}

// SturgesBins 按 Sturges 规则计算分箱数
func SturgesBins(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// Histogram 等宽分箱；bins <= 0 时使用 Sturges 规则
func Histogram(values []float64, bins int) []HistogramBin {
	if len(values) == 0 {
		return []HistogramBin{}
	}
	if bins <= 0 {
		bins = SturgesBins(len(values))
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram 的区间右开，最大值需要落在最后一个区间内
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	out := make([]HistogramBin, bins)
	for i := range out {
		out[i] = HistogramBin{Lower: dividers[i], Upper: dividers[i+1], Count: int(counts[i])}
	}
	out[bins-1].Upper = hi
	return out
}

// KDE 高斯核密度估计，带宽使用 Scott 规则；少于 2 个值或方差为 0 时返回 nil
func KDE(values []float64, points int) []DensityPoint {
	if len(values) < 2 {
		return nil
	}
	if points < 2 {
		points = 100
	}
	std := stat.StdDev(values, nil)
	if std == 0 || math.IsNaN(std) {
		return nil
	}
	h := std * math.Pow(float64(len(values)), -0.2)
	lo, hi := floats.Min(values)-3*h, floats.Max(values)+3*h

	grid := make([]float64, points)
	floats.Span(grid, lo, hi)

	out := make([]DensityPoint, points)
	n := float64(len(values))
	for i, x := range grid {
		var density float64
		for _, v := range values {
			density += distuv.Normal{Mu: v, Sigma: h}.Prob(x)
		}
		out[i] = DensityPoint{X: x, Density: density / n}
	}
	return out
}

// LocalizeDescriptions 按 tr 填充 Label
func LocalizeDescriptions(rows []GroupDescription, tr func(string) string) {
	for i := range rows {
		rows[i].Label = tr(rows[i].MessageID)
	}
}

func casualCounts(records []model.DailyRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = float64(r.Casual)
	}
	return out
}

func registeredCounts(records []model.DailyRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = float64(r.Registered)
	}
	return out
}
