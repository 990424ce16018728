package repository

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// column 表头中对应 DailyRecord 字段的列
type column int

const (
	colDate column = iota
	colYear
	colMonth
	colDay
	colWeekday
	colWeather
	colCount
	colCasual
	colRegistered
	numColumns
)

// columnAliases 各版本数据集中出现过的列名
var columnAliases = map[string]column{
	"date":           colDate,
	"dteday":         colDate,
	"dteday_day":     colDate,
	"yr":             colYear,
	"year":           colYear,
	"year_day":       colYear,
	"yr_day":         colYear,
	"mnth":           colMonth,
	"month":          colMonth,
	"month_day":      colMonth,
	"mnth_day":       colMonth,
	"day":            colDay,
	"day_of_month":   colDay,
	"weekday":        colWeekday,
	"weekday_day":    colWeekday,
	"weathersit":     colWeather,
	"weathersit_day": colWeather,
	"weather":        colWeather,
	"cnt":            colCount,
	"cnt_day":        colCount,
	"count":          colCount,
	"count_day":      colCount,
	"casual":         colCasual,
	"casual_day":     colCasual,
	"registered":     colRegistered,
	"registered_day": colRegistered,
}

// columnIndex 各已知列在行中的位置，缺失为 -1
type columnIndex struct {
	pos [numColumns]int
	// uciYear 年份列为 UCI "yr" 编码（0 = 2011，1 = 2012）
	uciYear bool
}

func (ci columnIndex) has(c column) bool {
	return ci.pos[c] >= 0
}

func (ci columnIndex) get(row []string, c column) string {
	p := ci.pos[c]
	if p < 0 || p >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[p])
}

// hasDateSource 表头是否足以构造日期
func (ci columnIndex) hasDateSource() bool {
	return ci.has(colDate) || (ci.has(colYear) && ci.has(colMonth))
}

func resolveColumns(header []string) (columnIndex, error) {
	var ci columnIndex
	for i := range ci.pos {
		ci.pos[i] = -1
	}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		c, ok := columnAliases[name]
		if !ok || ci.pos[c] >= 0 {
			continue
		}
		ci.pos[c] = i
		if c == colYear && (name == "yr" || name == "yr_day") {
			ci.uciYear = true
		}
	}

	var missing []string
	if !ci.has(colWeather) {
		missing = append(missing, "weathersit")
	}
	if !ci.has(colCasual) {
		missing = append(missing, "casual")
	}
	if !ci.has(colRegistered) {
		missing = append(missing, "registered")
	}
	if len(missing) > 0 {
		return ci, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return ci, nil
}

var monthNames = map[string]int{}

func init() {
	english := []string{"january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december"}
	indonesian := []string{"januari", "februari", "maret", "april", "mei", "juni",
		"juli", "agustus", "september", "oktober", "november", "desember"}
	for i := range english {
		monthNames[english[i]] = i + 1
		monthNames[english[i][:3]] = i + 1
		monthNames[indonesian[i]] = i + 1
	}
	// 与英文不同的印尼语缩写
	monthNames["mei"] = 5
	monthNames["agu"] = 8
	monthNames["agt"] = 8
	monthNames["okt"] = 10
	monthNames["des"] = 12
}

// parseMonth 接受 1..12 以及英文或印尼语月份名与缩写
func parseMonth(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if n, ok := parseInt(s); ok {
		if n < 1 || n > 12 {
			return 0, false
		}
		return n, true
	}
	m, ok := monthNames[strings.TrimSuffix(s, ".")]
	return m, ok
}

func parseYear(s string, uci bool) (int, bool) {
	n, ok := parseInt(s)
	if !ok {
		return 0, false
	}
	if uci && (n == 0 || n == 1) {
		return 2011 + n, true
	}
	if n < 1000 || n > 9999 {
		return 0, false
	}
	return n, true
}

// parseInt 接受整数及整数值的浮点数，如 "4200.0"
func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return dateOnly(t), true
		}
	}
	return time.Time{}, false
}

// normalizeDate 构造行的标准日期，日期列优先于 年/月/日 列；
// 没有日列的月度汇总文件取当月 1 日
func normalizeDate(ci columnIndex, row []string) (time.Time, bool) {
	if ci.has(colDate) {
		if t, ok := parseDateString(ci.get(row, colDate)); ok {
			return t, true
		}
	}
	if !ci.has(colYear) || !ci.has(colMonth) {
		return time.Time{}, false
	}
	year, ok := parseYear(ci.get(row, colYear), ci.uciYear)
	if !ok {
		return time.Time{}, false
	}
	month, ok := parseMonth(ci.get(row, colMonth))
	if !ok {
		return time.Time{}, false
	}
	day := 1
	if ci.has(colDay) {
		d, ok := parseInt(ci.get(row, colDay))
		if !ok {
			return time.Time{}, false
		}
		day = d
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date 会把溢出滚入下月，这里直接拒绝
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
