package repository

import (
	"context"
	"errors"
	"io/fs"

	"bikeshare-go/internal/model"
	"bikeshare-go/pkg/logging"

	"go.uber.org/zap"
)

// EmptySource 所有候选都失败时使用的空数据集来源名
const EmptySource = "empty"

// Source 数据集来源
type Source interface {
	Name() string
	Load(ctx context.Context) ([]model.DailyRecord, model.LoadReport, error)
}

// LoadFirst 依次尝试各数据源，返回第一个加载成功的结果
// 全部失败时返回空表，每个失败的来源附带一条警告
func LoadFirst(ctx context.Context, sources []Source) *model.Dataset {
	var warnings []string
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			warnings = append(warnings, err.Error())
			break
		}

		records, report, err := src.Load(ctx)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logging.Logger.Info("Dataset candidate not found, trying next",
					zap.String("source", src.Name()))
			} else {
				logging.Logger.Warn("Dataset candidate failed to load, trying next",
					zap.String("source", src.Name()),
					zap.Error(err))
			}
			warnings = append(warnings, src.Name()+": "+err.Error())
			continue
		}

		if report.Source == "" {
			report.Source = src.Name()
		}
		logging.Logger.Info("Dataset loaded",
			zap.String("source", report.Source),
			zap.Int("rows", report.Rows),
			zap.Int("dropped", report.Dropped),
			zap.Bool("synthetic", report.Synthetic),
		)
		return &model.Dataset{Records: records, Report: report}
	}

	logging.Logger.Warn("No dataset source could be loaded, using an empty table",
		zap.Strings("warnings", warnings))
	return &model.Dataset{
		Records: []model.DailyRecord{},
		Report: model.LoadReport{
			Source:   EmptySource,
			Warnings: append(warnings, "warning.dataset_empty"),
		},
	}
}
