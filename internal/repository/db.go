package repository

import (
	"context"
	"fmt"

	"bikeshare-go/internal/model"
	"bikeshare-go/pkg/logging"
	"bikeshare-go/pkg/utils"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// DB 只读数据源，未配置 db.dsn 时为 nil
var DB *gorm.DB

// InitDB 打开可选的 MySQL 数据源，只读不迁移
func InitDB(logger *zap.Logger, atomicLogLevel zap.AtomicLevel) error {
	dsn := viper.GetString("db.dsn")
	if dsn == "" {
		logging.Logger.Info("db.dsn not set, database source disabled")
		return nil
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logging.NewGormLogger(logger, logging.ToGormLogLevel(atomicLogLevel.Level())),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

// DBSource 从数据库表读取每日记录
type DBSource struct {
	DB    *gorm.DB
	Table string
}

func (s DBSource) Name() string {
	return "db:" + s.Table
}

func (s DBSource) Load(ctx context.Context) ([]model.DailyRecord, model.LoadReport, error) {
	report := model.LoadReport{Source: s.Name()}

	var rows []model.DailyRecord
	if err := s.DB.WithContext(ctx).Table(s.Table).Order("dteday ASC").Find(&rows).Error; err != nil {
		return nil, report, fmt.Errorf("failed to query %s: %w", s.Table, err)
	}

	records := make([]model.DailyRecord, 0, len(rows))
	for i, r := range rows {
		r.Date = dateOnly(r.Date)
		if err := utils.ValidateStruct(r); err != nil {
			report.Drop(fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		records = append(records, r)
	}
	report.Rows = len(records)
	return records, report, nil
}

// CloseDB 关闭数据库连接
func CloseDB() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		logging.Logger.Warn("Failed to get sql.DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logging.Logger.Warn("Database close failed", zap.Error(err))
	}
}
