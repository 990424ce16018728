package service

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"time"

	"bikeshare-go/constant"
	"bikeshare-go/internal/apperrors"
	"bikeshare-go/internal/model"
	"bikeshare-go/pkg/utils"
)

// Filter 是仪表盘的筛选条件，各谓词取交集
type Filter struct {
	Start    time.Time
	End      time.Time
	DayType  constant.DayType
	Weekdays []int
	Weather  int
	UserType constant.UserType
}

// FilterResult 筛选结果
type FilterResult struct {
	Records []model.DailyRecord
	// Matched 是筛选命中的行数，回退时为 0
	Matched  int
	Empty    bool
	FellBack bool
	Notice   string
}

// Validate 校验筛选参数，错误消息为 i18n 消息 ID
func (f Filter) Validate() error {
	if !f.Start.IsZero() && !f.End.IsZero() && f.Start.After(f.End) {
		return apperrors.InvalidRequestError("error.date_range")
	}
	switch f.DayType {
	case "", constant.DayTypeAll, constant.DayTypeWeekday, constant.DayTypeWeekend:
	default:
		return apperrors.InvalidRequestErrorDefault()
	}
	switch f.UserType {
	case "", constant.UserTypeAll, constant.UserTypeCasual, constant.UserTypeRegistered:
	default:
		return apperrors.InvalidRequestErrorDefault()
	}
	for _, d := range f.Weekdays {
		if d < 0 || d > 6 {
			return apperrors.InvalidRequestError("error.weekday_invalid")
		}
	}
	if f.Weather != 0 && (f.Weather < constant.WeatherClear || f.Weather > constant.WeatherHeavyRain) {
		return apperrors.InvalidRequestErrorDefault()
	}
	return nil
}

// Match 判断单行是否满足全部谓词；日期按天比较，两端都包含
func (f Filter) Match(r model.DailyRecord) bool {
	y, m, d := r.Date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if !f.Start.IsZero() && day.Before(truncateDay(f.Start)) {
		return false
	}
	if !f.End.IsZero() && day.After(truncateDay(f.End)) {
		return false
	}
	if set := f.DayType.Weekdays(); set != nil && !containsInt(set, r.Weekday) {
		return false
	}
	if len(f.Weekdays) > 0 && !containsInt(f.Weekdays, r.Weekday) {
		return false
	}
	if f.Weather != 0 && r.Weather != f.Weather {
		return false
	}
	return true
}

// Digest 生成筛选条件的稳定摘要，用作缓存键的一部分
func (f Filter) Digest() string {
	days := append([]int(nil), f.Weekdays...)
	sort.Ints(days)
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}

	canonical := fmt.Sprintf("%s|%s|%s|%s|%d|%s",
		formatDay(f.Start), formatDay(f.End), f.dayType(), strings.Join(parts, ","), f.Weather, f.userType())
	h := fnv.New64a()
	_, _ = h.Write([]byte(canonical))
	return strconv.FormatUint(h.Sum64(), 16)
}

func (f Filter) dayType() constant.DayType {
	if f.DayType == "" {
		return constant.DayTypeAll
	}
	return f.DayType
}

func (f Filter) userType() constant.UserType {
	if f.UserType == "" {
		return constant.UserTypeAll
	}
	return f.UserType
}

// ApplyFilter 筛选记录并按用户类型替换主指标。
// 结果为空不是错误：设置 Empty 与提示，fallback 为 true 时回退到未筛选的数据。
func ApplyFilter(records []model.DailyRecord, f Filter, fallback bool) FilterResult {
	matched := make([]model.DailyRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			matched = append(matched, r)
		}
	}

	if len(matched) > 0 || len(records) == 0 {
		result := FilterResult{
			Records: SubstituteUserType(matched, f.UserType),
			Matched: len(matched),
			Empty:   len(matched) == 0,
		}
		if result.Empty {
			result.Notice = "notice.empty_result"
		}
		return result
	}

	if !fallback {
		return FilterResult{
			Records: []model.DailyRecord{},
			Empty:   true,
			Notice:  "notice.empty_result",
		}
	}
	return FilterResult{
		Records:  SubstituteUserType(records, f.UserType),
		Empty:    true,
		FellBack: true,
		Notice:   "notice.fallback",
	}
}

// SubstituteUserType 返回副本，casual/registered 时用对应列替换 Count；不修改入参
func SubstituteUserType(records []model.DailyRecord, userType constant.UserType) []model.DailyRecord {
	out := make([]model.DailyRecord, len(records))
	copy(out, records)
	switch userType {
	case constant.UserTypeCasual:
		for i := range out {
			out[i].Count = out[i].Casual
		}
	case constant.UserTypeRegistered:
		for i := range out {
			out[i].Count = out[i].Registered
		}
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(utils.DateLayout)
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
