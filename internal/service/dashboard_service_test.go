package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	thirdPartyI18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare-go/constant"
	"bikeshare-go/internal/apperrors"
	"bikeshare-go/internal/i18n"
	"bikeshare-go/internal/model"
	"bikeshare-go/internal/repository"
)

func indonesian() context.Context {
	ctx := i18n.WithLanguage(context.Background(), "id")
	return i18n.WithLocalizer(ctx, thirdPartyI18n.NewLocalizer(i18n.Bundle, "id"))
}

func TestGetSummary(t *testing.T) {
	initTestEnv(t)
	ds := useDataset(sampleRecords())

	view, err := GetSummary(context.Background(), Filter{UserType: constant.UserTypeRegistered})
	require.NoError(t, err)
	assert.Equal(t, ds.Version, view.Filter.DatasetVersion)
	assert.Equal(t, 19, view.Filter.Total)
	assert.Equal(t, 19, view.Filter.Matched)
	assert.Equal(t, int64(67500), view.Summary.TotalRentals)
	assert.Empty(t, view.Filter.Notice)

	_, err = GetSummary(context.Background(), Filter{Start: day(2022, 1, 1), End: day(2021, 1, 1)})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestGetSummaryEmptyFallback(t *testing.T) {
	initTestEnv(t)
	useDataset(sampleRecords())
	f := Filter{Start: day(2030, 1, 1), End: day(2030, 2, 1)}

	view, err := GetSummary(context.Background(), f)
	require.NoError(t, err)
	assert.True(t, view.Filter.Empty)
	assert.True(t, view.Filter.FellBack)
	assert.Equal(t, "notice.fallback", view.Filter.NoticeKey)
	assert.Equal(t, "No data matches the selected filters; showing unfiltered data.", view.Filter.Notice)
	assert.Equal(t, 19, view.Summary.Days)

	viper.Set("dashboard.empty_fallback", false)
	view, err = GetSummary(context.Background(), f)
	require.NoError(t, err)
	assert.False(t, view.Filter.FellBack)
	assert.Zero(t, view.Summary.Days)
	assert.Equal(t, "No data matches the selected filters.", view.Filter.Notice)
}

func TestGetWeatherView(t *testing.T) {
	initTestEnv(t)
	useDataset(sampleRecords())

	view, err := GetWeatherView(indonesian(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, 4, view.Days)
	assert.Equal(t, []int{1, 2, 3}, keys(view.Groups))
	assert.InDelta(t, 6000, view.Groups[1].Mean, 1e-9)
	assert.Equal(t, "Berawan", view.Groups[1].Label)
	require.Len(t, view.Stats, 3)
	assert.Equal(t, view.Groups[1].Label, view.Stats[1].Label)
}

func TestGetSeasonView(t *testing.T) {
	initTestEnv(t)
	useDataset(sampleRecords())

	view, err := GetSeasonView(indonesian(), Filter{Start: day(2021, 1, 1), End: day(2021, 12, 31)})
	require.NoError(t, err)
	assert.Equal(t, 11, view.Filter.Matched)
	assert.Equal(t, []int{0, 1, 2, 3}, keys(view.Seasons))
	assert.Equal(t, "Musim Dingin", view.Seasons[0].Label)
	assert.Len(t, view.Months, 11)
	assert.Equal(t, "Januari", view.Months[0].Label)
	assert.Len(t, view.Weekdays, 7)
}

func TestGetUsersView(t *testing.T) {
	initTestEnv(t)
	useDataset(sampleRecords())

	view, err := GetUsersView(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, 15, view.ComparisonDays)
	require.Len(t, view.Comparison, 2)
	assert.Equal(t, constant.UserTypeCasual, view.Comparison[0].UserType)
	assert.Equal(t, "Casual", view.Comparison[0].Label)
	assert.Greater(t, view.Comparison[1].Mean, view.Comparison[0].Mean)
	assert.Len(t, view.Trend, 7)
	require.Len(t, view.Distribution, 2)
	assert.Equal(t, 19, view.Distribution[0].Describe.Count)
	assert.NotEmpty(t, view.Distribution[0].Histogram)
	assert.Len(t, view.Distribution[0].Density, kdePoints)

	weekend, err := GetUsersView(context.Background(), Filter{DayType: constant.DayTypeWeekend})
	require.NoError(t, err)
	assert.Equal(t, 4, weekend.ComparisonDays)
}

func TestComparisonSubset(t *testing.T) {
	records := sampleRecords()
	assert.Len(t, ComparisonSubset(records, constant.DayTypeAll), 15)
	assert.Len(t, ComparisonSubset(records, constant.DayTypeWeekday), 15)
	assert.Len(t, ComparisonSubset(records, constant.DayTypeWeekend), 19)
}

func TestListRecords(t *testing.T) {
	initTestEnv(t)
	useDataset(sampleRecords())

	page, meta, err := ListRecords(context.Background(), Filter{}, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 19, page.Total)
	assert.Equal(t, 4, page.TotalPage)
	assert.Len(t, page.List, 5)
	assert.Equal(t, day(2021, 6, 1), page.List[0].Date)
	assert.Equal(t, 19, meta.Matched)

	last, _, err := ListRecords(context.Background(), Filter{}, 9, 5)
	require.NoError(t, err)
	assert.Empty(t, last.List)
}

func TestReloadAndUploadDataset(t *testing.T) {
	initTestEnv(t)

	ds := ReloadDataset(context.Background(), "test")
	assert.Len(t, ds.Records, 19)
	assert.True(t, strings.HasPrefix(ds.Report.Source, "file:"))
	assert.Equal(t, day(2021, 1, 1), ds.Records[0].Date)

	csv := "dteday,weekday,weathersit,cnt,casual,registered\n2011-01-01,6,2,985,331,654\n2011-01-02,0,2,801,131,670\n"
	uploaded, err := UploadDataset(context.Background(), "day.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, "upload:day.csv", uploaded.Report.Source)
	assert.Greater(t, uploaded.Version, ds.Version)
	assert.Same(t, uploaded, repository.Datasets.Current())

	// 上传的数据集不会被定时任务覆盖
	ScheduledReload(context.Background())
	assert.Same(t, uploaded, repository.Datasets.Current())

	_, err = UploadDataset(context.Background(), "day.txt", strings.NewReader(csv))
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "error.upload_not_csv", appErr.Message)

	_, err = UploadDataset(context.Background(), "day.csv", strings.NewReader("a,b\n1,2\n"))
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "error.upload_invalid", appErr.Message)

	_, err = UploadDataset(context.Background(), "day.csv", strings.NewReader("dteday,weathersit,casual,registered\nnope,1,2,3\n"))
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "error.upload_no_rows", appErr.Message)
}

func TestReloadDatasetFallsBackToEmpty(t *testing.T) {
	initTestEnv(t)
	viper.Set("dataset.paths", []string{"does/not/exist.csv"})

	ds := ReloadDataset(context.Background(), "test")
	assert.Equal(t, repository.EmptySource, ds.Report.Source)
	assert.Empty(t, ds.Records)
	assert.Contains(t, ds.Report.Warnings, "warning.dataset_empty")

	view, err := GetSummary(context.Background(), Filter{})
	require.NoError(t, err)
	assert.True(t, view.Filter.Empty)
	assert.Zero(t, view.Summary.Days)
}

func TestViewCacheKeyFollowsDatasetContent(t *testing.T) {
	initTestEnv(t)
	ctx := i18n.WithLanguage(context.Background(), "en")
	f := Filter{}

	// 两个新进程各自的首个数据集版本号相同，缓存键必须仍能区分
	sample := repository.NewStore().Replace(&model.Dataset{
		Records: sampleRecords(),
		Report:  model.LoadReport{Source: "test"},
	})
	single := repository.NewStore().Replace(&model.Dataset{
		Records: sampleRecords()[:1],
		Report:  model.LoadReport{Source: "test"},
	})
	require.Equal(t, sample.Version, single.Version)
	assert.NotEqual(t, viewCacheKey(ctx, ViewSummary, sample, f), viewCacheKey(ctx, ViewSummary, single, f))

	// 内容相同则跨进程复用同一个键
	again := repository.NewStore().Replace(&model.Dataset{
		Records: sampleRecords(),
		Report:  model.LoadReport{Source: "test"},
	})
	assert.Equal(t, viewCacheKey(ctx, ViewSummary, sample, f), viewCacheKey(ctx, ViewSummary, again, f))

	records := sampleRecords()
	records[0].Casual++
	edited := repository.NewStore().Replace(&model.Dataset{Records: records, Report: model.LoadReport{Source: "test"}})
	assert.NotEqual(t, viewCacheKey(ctx, ViewSummary, sample, f), viewCacheKey(ctx, ViewSummary, edited, f))
}
