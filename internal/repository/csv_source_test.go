package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestReadCSV_UCIDailyLayout(t *testing.T) {
	input := "instant,dteday,season,yr,mnth,holiday,weekday,workingday,weathersit,casual,registered,cnt\n" +
		"1,2011-01-01,1,0,1,0,6,0,2,331,654,985\n" +
		"2,2011-01-02,1,0,1,0,0,0,2,131,670,801\n"

	records, report, err := ReadCSV(strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2, report.Rows)
	assert.Zero(t, report.Dropped)

	assert.Equal(t, day(2011, 1, 1), records[0].Date)
	assert.Equal(t, 6, records[0].Weekday)
	assert.Equal(t, 2, records[0].Weather)
	assert.Equal(t, 985, records[0].Count)
	assert.Equal(t, 331, records[0].Casual)
	assert.Equal(t, 654, records[0].Registered)
}

func TestReadCSV_MonthlyVariantWithMonthNames(t *testing.T) {
	input := "year_day,month_day,weekday_day,weathersit_day,count_day,casual_day,registered_day\n" +
		"2021,January,1,1,4200,1200,3000\n" +
		"2021,Feb,2,1,4800,1600,3200\n" +
		"2022,Juli,5,4,7200,3400,3800\n" +
		"2022,Agustus,3,1,7000,3200,3800\n"

	records, report, err := ReadCSV(strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Zero(t, report.Dropped)
	assert.Equal(t, day(2021, 1, 1), records[0].Date)
	assert.Equal(t, day(2021, 2, 1), records[1].Date)
	assert.Equal(t, day(2022, 7, 1), records[2].Date)
	assert.Equal(t, day(2022, 8, 1), records[3].Date)
	assert.Equal(t, 5, records[2].Weekday)
}

func TestReadCSV_DropsUnparseableAndInvalidRows(t *testing.T) {
	input := "date,weekday,weathersit,cnt,casual,registered\n" +
		"2021-03-01,1,1,100,40,60\n" +
		"not-a-date,2,1,100,40,60\n" +
		"2021-03-03,3,9,100,40,60\n" +
		"2021-03-04,4,1,abc,40,60\n" +
		"2021-03-05,5,2,100,-1,60\n" +
		",,,,,\n"

	records, report, err := ReadCSV(strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 4, report.Dropped)
	assert.Len(t, report.Warnings, 4)
	assert.Equal(t, day(2021, 3, 1), records[0].Date)
}

func TestReadCSV_DerivesMissingColumns(t *testing.T) {
	input := "\xEF\xBB\xBFdate,weathersit,casual,registered\n" +
		"2021-07-04,1,500,700\n"

	records, _, err := ReadCSV(strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1200, records[0].Count)
	// 2021-07-04 is a Sunday.
	assert.Equal(t, 0, records[0].Weekday)
}

func TestReadCSV_SyntheticDates(t *testing.T) {
	input := "weathersit,casual,registered,cnt\n" +
		"1,10,20,30\n" +
		"2,11,21,32\n"

	records, report, err := ReadCSV(strings.NewReader(input), CSVOptions{
		SyntheticDates: true,
		SyntheticStart: day(2020, 12, 31),
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, report.Synthetic)
	assert.Equal(t, day(2020, 12, 31), records[0].Date)
	assert.Equal(t, day(2021, 1, 1), records[1].Date)
	assert.Equal(t, int(time.Friday), records[1].Weekday)

	records, report, err = ReadCSV(strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 2, report.Dropped)
	assert.False(t, report.Synthetic)
}

func TestReadCSV_Errors(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader(""), CSVOptions{})
	assert.EqualError(t, err, "CSV file is empty")

	_, _, err = ReadCSV(strings.NewReader("date,cnt\n2021-01-01,5\n"), CSVOptions{})
	assert.EqualError(t, err, "missing required columns: weathersit, casual, registered")
}

func TestNormalizeDate(t *testing.T) {
	ci, err := resolveColumns([]string{"yr", "mnth", "day", "weathersit", "casual", "registered"})
	require.NoError(t, err)

	d, ok := normalizeDate(ci, []string{"1", "Des", "24", "1", "1", "1"})
	require.True(t, ok)
	assert.Equal(t, day(2012, 12, 24), d)

	_, ok = normalizeDate(ci, []string{"0", "2", "30", "1", "1", "1"})
	assert.False(t, ok, "February 30th must not roll over")

	_, ok = normalizeDate(ci, []string{"0", "13", "1", "1", "1", "1"})
	assert.False(t, ok)
}

func TestParseMonth(t *testing.T) {
	tests := map[string]int{
		"1": 1, "12": 12, "March": 3, "mar": 3, "Sept": 0, "Oktober": 10, "okt.": 10, "Mei": 5, "may": 5,
	}
	for in, want := range tests {
		got, ok := parseMonth(in)
		if want == 0 {
			assert.False(t, ok, in)
			continue
		}
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
}
