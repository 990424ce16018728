package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bikeshare-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSource struct{ err error }

func (f failingSource) Name() string { return "failing" }

func (f failingSource) Load(context.Context) ([]model.DailyRecord, model.LoadReport, error) {
	return nil, model.LoadReport{}, f.err
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFirst_FallsThroughCandidates(t *testing.T) {
	dir := t.TempDir()
	good := writeCSV(t, dir, "day.csv", "date,weekday,weathersit,cnt,casual,registered\n2021-01-04,1,1,10,4,6\n")

	ds := LoadFirst(context.Background(), []Source{
		FileSource{Path: filepath.Join(dir, "missing.csv")},
		failingSource{err: errors.New("boom")},
		FileSource{Path: good},
	})

	require.Len(t, ds.Records, 1)
	assert.Equal(t, "file:"+good, ds.Report.Source)
	assert.Equal(t, 1, ds.Report.Rows)
}

func TestLoadFirst_EmptyFallback(t *testing.T) {
	ds := LoadFirst(context.Background(), []Source{
		FileSource{Path: filepath.Join(t.TempDir(), "missing.csv")},
	})

	assert.NotNil(t, ds.Records)
	assert.Empty(t, ds.Records)
	assert.Equal(t, EmptySource, ds.Report.Source)
	assert.Contains(t, ds.Report.Warnings, "warning.dataset_empty")
	assert.Len(t, ds.Report.Warnings, 2)
}

func TestLoadFirst_NoSources(t *testing.T) {
	ds := LoadFirst(context.Background(), nil)
	assert.Equal(t, EmptySource, ds.Report.Source)
}

func TestStore_ReplaceBumpsVersion(t *testing.T) {
	s := NewStore()
	assert.Equal(t, EmptySource, s.Current().Report.Source)
	assert.Zero(t, s.Current().Version)

	first := s.Replace(&model.Dataset{Report: model.LoadReport{Source: "a"}})
	second := s.Replace(&model.Dataset{Report: model.LoadReport{Source: "b"}})

	assert.Equal(t, int64(1), first.Version)
	assert.Equal(t, int64(2), second.Version)
	assert.Equal(t, "b", s.Current().Report.Source)
	assert.False(t, s.Current().LoadedAt.IsZero())
}

// uploadDuringLoad 在加载过程中模拟一次上传落地
type uploadDuringLoad struct {
	store  *Store
	upload *model.Dataset
}

func (u uploadDuringLoad) Name() string { return "slow" }

func (u uploadDuringLoad) Load(context.Context) ([]model.DailyRecord, model.LoadReport, error) {
	u.store.Replace(u.upload)
	records := []model.DailyRecord{{Date: day(2021, 1, 1), Weather: 1, Count: 10, Casual: 4, Registered: 6}}
	return records, model.LoadReport{Rows: 1}, nil
}

func TestStore_ReplaceUnlessKeepsUpload(t *testing.T) {
	s := NewStore()
	upload := &model.Dataset{Report: model.LoadReport{Source: "upload:day.csv"}}
	isUpload := func(ds *model.Dataset) bool { return ds.Report.Source == "upload:day.csv" }

	candidate := LoadFirst(context.Background(), []Source{uploadDuringLoad{store: s, upload: upload}})
	current, replaced := s.ReplaceUnless(isUpload, candidate)
	assert.False(t, replaced)
	assert.Same(t, upload, current)
	assert.Same(t, upload, s.Current())

	other := NewStore()
	current, replaced = other.ReplaceUnless(isUpload, candidate)
	assert.True(t, replaced)
	assert.Same(t, candidate, current)
	assert.Equal(t, int64(1), current.Version)
}

func TestFingerprint(t *testing.T) {
	records := []model.DailyRecord{
		{Date: day(2021, 1, 1), Weekday: 5, Weather: 1, Count: 10, Casual: 4, Registered: 6},
		{Date: day(2021, 1, 2), Weekday: 6, Weather: 2, Count: 12, Casual: 5, Registered: 7},
	}
	a := NewStore().Replace(&model.Dataset{Records: records, Report: model.LoadReport{Source: "a"}})
	b := NewStore().Replace(&model.Dataset{Records: append([]model.DailyRecord(nil), records...), Report: model.LoadReport{Source: "a"}})
	assert.Equal(t, a.Version, b.Version)
	assert.NotEmpty(t, a.Fingerprint)
	assert.Equal(t, a.Fingerprint, b.Fingerprint)

	assert.NotEqual(t, a.Fingerprint, Fingerprint(&model.Dataset{Records: records[:1], Report: model.LoadReport{Source: "a"}}))
	assert.NotEqual(t, a.Fingerprint, Fingerprint(&model.Dataset{Records: records, Report: model.LoadReport{Source: "b"}}))
	assert.NotEqual(t, a.Fingerprint, NewStore().Current().Fingerprint)
}

func TestDataset_DateRange(t *testing.T) {
	var empty *model.Dataset
	lo, hi := empty.DateRange()
	assert.True(t, lo.IsZero())
	assert.True(t, hi.IsZero())

	ds := &model.Dataset{Records: []model.DailyRecord{
		{Date: day(2021, 5, 1)}, {Date: day(2020, 1, 1)}, {Date: day(2022, 2, 1)},
	}}
	lo, hi = ds.DateRange()
	assert.Equal(t, day(2020, 1, 1), lo)
	assert.Equal(t, day(2022, 2, 1), hi)
}
