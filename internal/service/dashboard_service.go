package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"bikeshare-go/constant"
	"bikeshare-go/internal/i18n"
	"bikeshare-go/internal/metrics"
	"bikeshare-go/internal/model"
	"bikeshare-go/internal/repository"
	"bikeshare-go/pkg/logging"
	"bikeshare-go/response"
)

// 视图名称，同时用于缓存键
const (
	ViewSummary = "summary"
	ViewWeather = "weather"
	ViewSeason  = "season"
	ViewUsers   = "users"
)

// FilterMeta 描述一次筛选的结果，附在每个视图上
type FilterMeta struct {
	DatasetVersion int64  `json:"datasetVersion"`
	Total          int    `json:"total"`
	Matched        int    `json:"matched"`
	Empty          bool   `json:"empty"`
	FellBack       bool   `json:"fellBack"`
	NoticeKey      string `json:"noticeKey,omitempty"`
	Notice         string `json:"notice,omitempty"`
}

// SummaryView 汇总指标
type SummaryView struct {
	Filter  FilterMeta `json:"filter"`
	Summary Summary    `json:"summary"`
}

// WeatherView 周末天气对租赁量的影响
type WeatherView struct {
	Filter FilterMeta         `json:"filter"`
	Days   int                `json:"days"`
	Groups []GroupStat        `json:"groups"`
	Stats  []GroupDescription `json:"stats"`
}

// SeasonView 季节、月份与星期趋势
type SeasonView struct {
	Filter   FilterMeta  `json:"filter"`
	Seasons  []GroupStat `json:"seasons"`
	Months   []GroupStat `json:"months"`
	Weekdays []GroupStat `json:"weekdays"`
}

// UserComparison 某类用户在对比子集上的统计
type UserComparison struct {
	UserType  constant.UserType `json:"userType"`
	Label     string            `json:"label"`
	MessageID string            `json:"-"`
	Mean      float64           `json:"mean"`
	Median    float64           `json:"median"`
	Max       float64           `json:"max"`
	Min       float64           `json:"min"`
	Std       float64           `json:"std"`
}

// UserDistribution 某类用户的分布
type UserDistribution struct {
	UserType  constant.UserType `json:"userType"`
	Label     string            `json:"label"`
	MessageID string            `json:"-"`
	Describe  Description       `json:"describe"`
	Histogram []HistogramBin    `json:"histogram"`
	Density   []DensityPoint    `json:"density"`
}

// UsersView 散客与注册用户对比
type UsersView struct {
	Filter FilterMeta `json:"filter"`
	// ComparisonDays 是对比子集（工作日或周末）的天数
	ComparisonDays int                `json:"comparisonDays"`
	Comparison     []UserComparison   `json:"comparison"`
	Trend          []UserTrendPoint   `json:"trend"`
	Distribution   []UserDistribution `json:"distribution"`
}

// kdePoints KDE 曲线的采样点数
const kdePoints = 100

// FilterCurrent 对当前数据集执行筛选，空结果时按 dashboard.empty_fallback 决定是否回退
func FilterCurrent(f Filter) (*model.Dataset, FilterResult) {
	ds := repository.Datasets.Current()
	return ds, filterDataset(ds, f)
}

func filterDataset(ds *model.Dataset, f Filter) FilterResult {
	result := ApplyFilter(ds.Records, f, viper.GetBool("dashboard.empty_fallback"))
	if result.Empty {
		metrics.EmptyFilterResults.WithLabelValues(boolLabel(result.FellBack)).Inc()
	}
	return result
}

func newFilterMeta(ds *model.Dataset, result FilterResult) FilterMeta {
	return FilterMeta{
		DatasetVersion: ds.Version,
		Total:          len(ds.Records),
		Matched:        result.Matched,
		Empty:          result.Empty,
		FellBack:       result.FellBack,
		NoticeKey:      result.Notice,
		Notice:         result.Notice,
	}
}

// LocalizedFilterMeta 本地化后的筛选结果描述，供导出等非 JSON 响应使用
func LocalizedFilterMeta(ctx context.Context, ds *model.Dataset, result FilterResult) FilterMeta {
	meta := newFilterMeta(ds, result)
	meta.localize(i18n.Translator(ctx))
	return meta
}

func (m *FilterMeta) localize(tr func(string) string) {
	if m.NoticeKey != "" {
		m.Notice = tr(m.NoticeKey)
	}
}

// GetSummary 汇总指标
func GetSummary(ctx context.Context, f Filter) (*SummaryView, error) {
	return cachedView(ctx, ViewSummary, f, func(ds *model.Dataset, result FilterResult) *SummaryView {
		return &SummaryView{
			Filter:  newFilterMeta(ds, result),
			Summary: Summarize(result.Records),
		}
	}, func(v *SummaryView, tr func(string) string) {
		v.Filter.localize(tr)
	})
}

// BuildWeatherView 只统计筛选结果中的周末
func BuildWeatherView(records []model.DailyRecord) ([]GroupStat, []GroupDescription, int) {
	weekend := make([]model.DailyRecord, 0, len(records))
	for _, r := range records {
		if containsInt(constant.WeekendDays, r.Weekday) {
			weekend = append(weekend, r)
		}
	}
	return ByWeather(weekend), GroupDescribe(weekend), len(weekend)
}

// GetWeatherView 周末天气影响
func GetWeatherView(ctx context.Context, f Filter) (*WeatherView, error) {
	return cachedView(ctx, ViewWeather, f, func(ds *model.Dataset, result FilterResult) *WeatherView {
		groups, stats, days := BuildWeatherView(result.Records)
		return &WeatherView{
			Filter: newFilterMeta(ds, result),
			Days:   days,
			Groups: groups,
			Stats:  stats,
		}
	}, func(v *WeatherView, tr func(string) string) {
		v.Filter.localize(tr)
		LocalizeGroups(v.Groups, tr)
		LocalizeDescriptions(v.Stats, tr)
	})
}

// GetSeasonView 季节趋势
func GetSeasonView(ctx context.Context, f Filter) (*SeasonView, error) {
	return cachedView(ctx, ViewSeason, f, func(ds *model.Dataset, result FilterResult) *SeasonView {
		return &SeasonView{
			Filter:   newFilterMeta(ds, result),
			Seasons:  BySeason(result.Records),
			Months:   ByMonth(result.Records),
			Weekdays: ByWeekday(result.Records),
		}
	}, func(v *SeasonView, tr func(string) string) {
		v.Filter.localize(tr)
		LocalizeGroups(v.Seasons, tr)
		LocalizeGroups(v.Months, tr)
		LocalizeGroups(v.Weekdays, tr)
	})
}

// ComparisonSubset 对比子集：日类型为 all/weekday 时取工作日，weekend 时原样使用
func ComparisonSubset(records []model.DailyRecord, dayType constant.DayType) []model.DailyRecord {
	if dayType == constant.DayTypeWeekend {
		return records
	}
	out := make([]model.DailyRecord, 0, len(records))
	for _, r := range records {
		if containsInt(constant.Workdays, r.Weekday) {
			out = append(out, r)
		}
	}
	return out
}

// GetUsersView 散客与注册用户对比
func GetUsersView(ctx context.Context, f Filter) (*UsersView, error) {
	return cachedView(ctx, ViewUsers, f, func(ds *model.Dataset, result FilterResult) *UsersView {
		subset := ComparisonSubset(result.Records, f.DayType)
		view := &UsersView{
			Filter:         newFilterMeta(ds, result),
			ComparisonDays: len(subset),
			Comparison: []UserComparison{
				userComparison(constant.UserTypeCasual, casualCounts(subset)),
				userComparison(constant.UserTypeRegistered, registeredCounts(subset)),
			},
			Trend: WeeklyUserTrend(result.Records),
			Distribution: []UserDistribution{
				userDistribution(constant.UserTypeCasual, casualCounts(result.Records)),
				userDistribution(constant.UserTypeRegistered, registeredCounts(result.Records)),
			},
		}
		return view
	}, func(v *UsersView, tr func(string) string) {
		v.Filter.localize(tr)
		for i := range v.Comparison {
			v.Comparison[i].Label = tr(v.Comparison[i].MessageID)
		}
		for i := range v.Distribution {
			v.Distribution[i].Label = tr(v.Distribution[i].MessageID)
		}
		LocalizeTrend(v.Trend, tr)
	})
}

func userMessageID(userType constant.UserType) string {
	return "user." + string(userType)
}

func userComparison(userType constant.UserType, values []float64) UserComparison {
	d := Describe(values)
	return UserComparison{
		UserType:  userType,
		Label:     string(userType),
		MessageID: userMessageID(userType),
		Mean:      d.Mean,
		Median:    d.Median,
		Max:       d.Max,
		Min:       d.Min,
		Std:       d.Std,
	}
}

func userDistribution(userType constant.UserType, values []float64) UserDistribution {
	return UserDistribution{
		UserType:  userType,
		Label:     string(userType),
		MessageID: userMessageID(userType),
		Describe:  Describe(values),
		Histogram: Histogram(values, 0),
		Density:   KDE(values, kdePoints),
	}
}

// cachedView 计算并本地化视图；配置了 redis 时按 视图/数据集指纹/筛选摘要/语言 缓存本地化后的结果
func cachedView[T any](ctx context.Context, view string, f Filter,
	build func(*model.Dataset, FilterResult) *T, localize func(*T, func(string) string)) (*T, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	ds := repository.Datasets.Current()
	cacheKey := viewCacheKey(ctx, view, ds, f)
	if repository.RedisPool != nil {
		if cached, ok := repository.CacheGet(cacheKey); ok {
			var v T
			err := json.Unmarshal(cached, &v)
			if err == nil {
				metrics.ViewCache.WithLabelValues("hit").Inc()
				return &v, nil
			}
			logging.Logger.Warn("Failed to unmarshal cached view",
				zap.String("cache_key", cacheKey),
				zap.Error(err))
		}
		metrics.ViewCache.WithLabelValues("miss").Inc()
	}

	v := build(ds, filterDataset(ds, f))
	localize(v, i18n.Translator(ctx))

	if repository.RedisPool != nil {
		if payload, err := json.Marshal(v); err == nil {
			repository.CacheSet(cacheKey, payload, cacheTTL())
		}
	}
	return v, nil
}

// viewCacheKey 缓存键取数据集内容指纹，不取进程内版本号
func viewCacheKey(ctx context.Context, view string, ds *model.Dataset, f Filter) string {
	return constant.GetViewCacheKey(view, ds.Fingerprint, f.Digest()+":"+i18n.LanguageFrom(ctx))
}

func cacheTTL() time.Duration {
	if ttl := viper.GetDuration("dashboard.cache_ttl"); ttl > 0 {
		return ttl
	}
	return 10 * time.Minute
}

// ListRecords 分页返回筛选后的记录
func ListRecords(ctx context.Context, f Filter, page, size int) (*response.PageResponse[model.DailyRecord], FilterMeta, error) {
	if err := f.Validate(); err != nil {
		return nil, FilterMeta{}, err
	}
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20 // 默认每页20条，最大100条
	}

	ds, result := FilterCurrent(f)
	meta := newFilterMeta(ds, result)
	meta.localize(i18n.Translator(ctx))

	total := len(result.Records)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return &response.PageResponse[model.DailyRecord]{
		Page:      page,
		Size:      size,
		Total:     total,
		TotalPage: (total + size - 1) / size,
		List:      result.Records[start:end],
	}, meta, nil
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
