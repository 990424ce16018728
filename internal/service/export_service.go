package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"bikeshare-go/internal/model"
	"bikeshare-go/pkg/logging"
	"bikeshare-go/pkg/utils"
)

// 导出格式
const (
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"

	exportSheet = "filtered"
)

// ExportHeader 导出文件的列，与加载器的列别名一致，导出后可原样重新加载
var ExportHeader = []string{"date", "weekday", "weathersit", "cnt", "casual", "registered"}

// ContentType 返回导出格式的 MIME 类型
func ContentType(format string) string {
	if format == ExportXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// WriteCSV 写出筛选后的记录；bom 为 true 时加 UTF-8 BOM 方便 Excel 打开
func WriteCSV(w io.Writer, records []model.DailyRecord, bom bool) error {
	if bom {
		if _, err := io.WriteString(w, "\ufeff"); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Date.Format(utils.DateLayout),
			strconv.Itoa(r.Weekday),
			strconv.Itoa(r.Weather),
			strconv.Itoa(r.Count),
			strconv.Itoa(r.Casual),
			strconv.Itoa(r.Registered),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX 写出单个工作表 filtered，列与 CSV 相同
func WriteXLSX(w io.Writer, records []model.DailyRecord) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logging.Logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.Date.Format(utils.DateLayout),
			r.Weekday,
			r.Weather,
			r.Count,
			r.Casual,
			r.Registered,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ExportFileName 下载文件名
func ExportFileName(format string) string {
	return "bike_sharing_filtered." + format
}
