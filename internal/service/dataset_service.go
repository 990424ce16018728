package service

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"bikeshare-go/internal/apperrors"
	"bikeshare-go/internal/metrics"
	"bikeshare-go/internal/model"
	"bikeshare-go/internal/repository"
	"bikeshare-go/pkg/logging"
	"bikeshare-go/pkg/utils"
)

// UploadSourcePrefix 上传数据集的来源前缀
const UploadSourcePrefix = "upload:"

// CSVOptionsFromConfig 读取 dataset.synthetic_* 配置
func CSVOptionsFromConfig() repository.CSVOptions {
	opts := repository.CSVOptions{SyntheticDates: viper.GetBool("dataset.synthetic_dates")}
	if start := viper.GetString("dataset.synthetic_start"); start != "" {
		t, err := utils.ParseDate(start)
		if err != nil {
			logging.Logger.Warn("Invalid dataset.synthetic_start, using default",
				zap.String("value", start), zap.Error(err))
		} else {
			opts.SyntheticStart = t
		}
	}
	return opts
}

// DatasetSources 候选数据源：配置的 CSV 路径依次在前，数据库（已配置时）在最后
func DatasetSources() []repository.Source {
	opts := CSVOptionsFromConfig()
	var sources []repository.Source
	for _, path := range viper.GetStringSlice("dataset.paths") {
		if path = strings.TrimSpace(path); path != "" {
			sources = append(sources, repository.FileSource{Path: path, Options: opts})
		}
	}
	if repository.DB != nil {
		sources = append(sources, repository.DBSource{DB: repository.DB, Table: viper.GetString("db.table")})
	}
	return sources
}

// ReloadDataset 重新执行候选数据源链并替换内存数据集
func ReloadDataset(ctx context.Context, trigger string) *model.Dataset {
	ds := repository.Datasets.Replace(repository.LoadFirst(ctx, DatasetSources()))
	recordLoad(trigger, ds)
	return ds
}

func recordLoad(trigger string, ds *model.Dataset) {
	result := "ok"
	if ds.Report.Source == repository.EmptySource {
		result = "empty"
	}
	metrics.DatasetLoads.WithLabelValues(trigger, result).Inc()
	metrics.DatasetRows.Set(float64(len(ds.Records)))
}

func isUploaded(ds *model.Dataset) bool {
	return strings.HasPrefix(ds.Report.Source, UploadSourcePrefix)
}

// ScheduledReload 定时任务入口；当前数据集来自上传时跳过，检查与替换在同一把锁内完成
func ScheduledReload(ctx context.Context) {
	if current := repository.Datasets.Current(); isUploaded(current) {
		skipScheduledReload(current)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	candidate := repository.LoadFirst(ctx, DatasetSources())

	// 加载期间可能有上传落地
	ds, replaced := repository.Datasets.ReplaceUnless(isUploaded, candidate)
	if !replaced {
		skipScheduledReload(ds)
		return
	}
	recordLoad("cron", ds)
	logging.Logger.Info("Scheduled dataset reload finished",
		zap.String("source", ds.Report.Source),
		zap.Int64("version", ds.Version),
		zap.Int("rows", len(ds.Records)))
}

func skipScheduledReload(current *model.Dataset) {
	logging.Logger.Info("Skipping scheduled reload, uploaded dataset in use",
		zap.String("source", current.Report.Source))
	metrics.DatasetLoads.WithLabelValues("cron", "skipped").Inc()
}

// UploadDataset 解析上传的 CSV 并替换内存数据集
func UploadDataset(ctx context.Context, name string, r io.Reader) (*model.Dataset, error) {
	if err := utils.ValidateUploadName(name); err != nil {
		return nil, apperrors.InvalidRequestError(err.Error())
	}

	records, report, err := repository.ReadCSV(r, CSVOptionsFromConfig())
	if err != nil {
		logging.Logger.Warn("Uploaded dataset rejected", zap.String("name", name), zap.Error(err))
		metrics.DatasetLoads.WithLabelValues("upload", "error").Inc()
		return nil, apperrors.Wrap(http.StatusBadRequest, "error.upload_invalid", err)
	}
	if len(records) == 0 {
		metrics.DatasetLoads.WithLabelValues("upload", "error").Inc()
		return nil, apperrors.InvalidRequestError("error.upload_no_rows")
	}

	report.Source = UploadSourcePrefix + name
	ds := repository.Datasets.Replace(&model.Dataset{Records: records, Report: report})
	metrics.DatasetLoads.WithLabelValues("upload", "ok").Inc()
	metrics.DatasetRows.Set(float64(len(ds.Records)))

	logging.Logger.Info("Uploaded dataset in use",
		zap.String("source", report.Source),
		zap.Int64("version", ds.Version),
		zap.Int("rows", report.Rows),
		zap.Int("dropped", report.Dropped))
	return ds, nil
}
