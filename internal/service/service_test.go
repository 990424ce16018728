package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"bikeshare-go/internal/i18n"
	"bikeshare-go/internal/model"
	"bikeshare-go/internal/repository"
)

func initTestEnv(t *testing.T) {
	t.Helper()
	root := getProjectRoot()
	if root == "" {
		t.Fatal("cannot find project root")
	}

	viper.Reset()
	viper.Set("dashboard.empty_fallback", true)
	viper.Set("dataset.paths", []string{filepath.Join(root, "data", "bike_sharing.csv")})
	t.Cleanup(viper.Reset)

	_, err := i18n.InitI18n([]string{
		filepath.Join(root, "i18n", "en.toml"),
		filepath.Join(root, "i18n", "id.toml"),
	}, "en")
	require.NoError(t, err)

	repository.RedisPool = nil
	repository.DB = nil
	repository.Datasets = repository.NewStore()
}

func getProjectRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sampleRecords 与 data/bike_sharing.csv 相同的 19 行月度样例
func sampleRecords() []model.DailyRecord {
	years := []int{2021, 2021, 2021, 2021, 2021, 2021, 2021, 2021, 2021, 2021, 2021, 2022, 2022, 2022, 2022, 2022, 2022, 2022, 2022}
	months := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 1, 2, 3, 4, 5, 6, 7}
	weekdays := []int{1, 2, 3, 4, 5, 6, 0, 1, 2, 3, 4, 5, 6, 0, 1, 2, 3, 4, 5}
	weather := []int{1, 1, 2, 2, 1, 3, 2, 1, 4, 1, 2, 3, 1, 2, 1, 3, 2, 1, 4}
	counts := []int{4200, 4800, 5200, 5600, 6000, 6500, 7000, 7200, 6800, 6400, 5800, 5200, 4600, 5000, 5500, 6000, 6500, 7000, 7200}
	casual := []int{1200, 1600, 1800, 2000, 2200, 2600, 3200, 3400, 3000, 2800, 2400, 2000, 1600, 1800, 2000, 2200, 2600, 3200, 3400}
	registered := []int{3000, 3200, 3400, 3600, 3800, 3900, 3800, 3800, 3800, 3600, 3400, 3200, 3000, 3200, 3500, 3800, 3900, 3800, 3800}

	records := make([]model.DailyRecord, len(years))
	for i := range records {
		records[i] = model.DailyRecord{
			Date:       day(years[i], time.Month(months[i]), 1),
			Weekday:    weekdays[i],
			Weather:    weather[i],
			Count:      counts[i],
			Casual:     casual[i],
			Registered: registered[i],
		}
	}
	return records
}

func useDataset(records []model.DailyRecord) *model.Dataset {
	return repository.Datasets.Replace(&model.Dataset{
		Records: records,
		Report:  model.LoadReport{Source: "test", Rows: len(records)},
	})
}
