package service

import (
	"bikeshare-go/constant"
	"bikeshare-go/internal/model"
)

// GroupStat 一个分组的聚合结果
type GroupStat struct {
	Key       int     `json:"key"`
	Name      string  `json:"name"`
	Label     string  `json:"label"`
	MessageID string  `json:"-"`
	Mean      float64 `json:"mean"`
	Sum       int64   `json:"sum"`
	Count     int     `json:"count"`
}

// UserTrendPoint 某个星期几的散客/注册用户平均租赁量
type UserTrendPoint struct {
	Weekday    int     `json:"weekday"`
	Name       string  `json:"name"`
	Label      string  `json:"label"`
	MessageID  string  `json:"-"`
	Casual     float64 `json:"casual"`
	Registered float64 `json:"registered"`
}

// Summary 汇总指标
type Summary struct {
	TotalRentals    int64   `json:"totalRentals"`
	AverageDaily    float64 `json:"averageDaily"`
	TotalCasual     int64   `json:"totalCasual"`
	TotalRegistered int64   `json:"totalRegistered"`
	Days            int     `json:"days"`
}

type accumulator struct {
	sum   int64
	count int
}

// groupBy 按 keyOf 累加 Count，按 order 输出，只保留出现过的键
func groupBy(records []model.DailyRecord, order []int, keyOf func(model.DailyRecord) int,
	name func(int) string, messageID func(int) string) []GroupStat {
	acc := make(map[int]*accumulator, len(order))
	for _, r := range records {
		k := keyOf(r)
		a, ok := acc[k]
		if !ok {
			a = &accumulator{}
			acc[k] = a
		}
		a.sum += int64(r.Count)
		a.count++
	}

	stats := make([]GroupStat, 0, len(acc))
	for _, k := range order {
		a, ok := acc[k]
		if !ok {
			continue
		}
		stats = append(stats, GroupStat{
			Key:       k,
			Name:      name(k),
			Label:     name(k),
			MessageID: messageID(k),
			Mean:      float64(a.sum) / float64(a.count),
			Sum:       a.sum,
			Count:     a.count,
		})
	}
	return stats
}

var seasonIndexOrder = []int{0, 1, 2, 3}

// BySeason 按季节分组，顺序 Winter, Spring, Summer, Autumn
func BySeason(records []model.DailyRecord) []GroupStat {
	return groupBy(records, seasonIndexOrder,
		func(r model.DailyRecord) int { return constant.SeasonOf(int(r.Date.Month())).Index() },
		func(i int) string { return string(constant.SeasonOrder[i]) },
		func(i int) string { return constant.SeasonOrder[i].MessageID() },
	)
}

// ByMonth 按月份分组，顺序 1..12
func ByMonth(records []model.DailyRecord) []GroupStat {
	return groupBy(records, constant.MonthOrder,
		func(r model.DailyRecord) int { return int(r.Date.Month()) },
		constant.MonthName, constant.MonthMessageID)
}

// ByWeekday 按星期分组，顺序 0..6（周日在前）
func ByWeekday(records []model.DailyRecord) []GroupStat {
	return groupBy(records, constant.WeekdayOrder,
		func(r model.DailyRecord) int { return r.Weekday },
		constant.WeekdayName, constant.WeekdayMessageID)
}

// ByWeather 按天气分组，顺序 1..4
func ByWeather(records []model.DailyRecord) []GroupStat {
	return groupBy(records, constant.WeatherOrder,
		func(r model.DailyRecord) int { return r.Weather },
		constant.WeatherName, constant.WeatherMessageID)
}

// WeeklyUserTrend 固定返回 7 行，没有数据的星期填 0
func WeeklyUserTrend(records []model.DailyRecord) []UserTrendPoint {
	var casual, registered [7]int64
	var days [7]int
	for _, r := range records {
		if r.Weekday < 0 || r.Weekday > 6 {
			continue
		}
		casual[r.Weekday] += int64(r.Casual)
		registered[r.Weekday] += int64(r.Registered)
		days[r.Weekday]++
	}

	points := make([]UserTrendPoint, 0, len(constant.WeekdayOrder))
	for _, d := range constant.WeekdayOrder {
		p := UserTrendPoint{
			Weekday:   d,
			Name:      constant.WeekdayName(d),
			Label:     constant.WeekdayName(d),
			MessageID: constant.WeekdayMessageID(d),
		}
		if days[d] > 0 {
			p.Casual = float64(casual[d]) / float64(days[d])
			p.Registered = float64(registered[d]) / float64(days[d])
		}
		points = append(points, p)
	}
	return points
}

// Summarize 计算汇总指标，TotalRentals 使用（可能已被替换的）主指标 Count
func Summarize(records []model.DailyRecord) Summary {
	var s Summary
	for _, r := range records {
		s.TotalRentals += int64(r.Count)
		s.TotalCasual += int64(r.Casual)
		s.TotalRegistered += int64(r.Registered)
	}
	s.Days = len(records)
	if s.Days > 0 {
		s.AverageDaily = float64(s.TotalRentals) / float64(s.Days)
	}
	return s
}

// LocalizeGroups 按 tr 填充 Label
func LocalizeGroups(stats []GroupStat, tr func(string) string) {
	for i := range stats {
		stats[i].Label = tr(stats[i].MessageID)
	}
}

// LocalizeTrend 按 tr 填充 Label
func LocalizeTrend(points []UserTrendPoint, tr func(string) string) {
	for i := range points {
		points[i].Label = tr(points[i].MessageID)
	}
}
