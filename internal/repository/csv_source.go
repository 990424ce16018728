package repository

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"bikeshare-go/internal/model"
	"bikeshare-go/pkg/logging"
	"bikeshare-go/pkg/utils"

	"go.uber.org/zap"
)

// CSVOptions CSV 数据集的规范化选项
type CSVOptions struct {
	// SyntheticDates 所有行都没有可用日期时，从 SyntheticStart 起按天生成日期
	SyntheticDates bool
	SyntheticStart time.Time
}

// FileSource 从候选路径读取 CSV
type FileSource struct {
	Path    string
	Options CSVOptions
}

func (s FileSource) Name() string {
	return "file:" + s.Path
}

func (s FileSource) Load(ctx context.Context) ([]model.DailyRecord, model.LoadReport, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, model.LoadReport{Source: s.Name()}, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logging.Logger.Warn("Failed to close dataset file", zap.String("path", s.Path), zap.Error(cerr))
		}
	}()

	records, report, err := ReadCSV(f, s.Options)
	report.Source = s.Name()
	return records, report, err
}

// ReadCSV 将共享单车 CSV 解析为校验过的记录
// 日期无法解析或数值越界的行被丢弃并计入报告
func ReadCSV(r io.Reader, opts CSVOptions) ([]model.DailyRecord, model.LoadReport, error) {
	var report model.LoadReport

	br := bufio.NewReader(r)
	// 去掉 UTF-8 BOM
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, report, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, report, fmt.Errorf("failed to read CSV header: %w", err)
	}

	ci, err := resolveColumns(header)
	if err != nil {
		return nil, report, err
	}
	if !ci.hasDateSource() {
		report.Warnings = append(report.Warnings, "no date columns found")
	}

	type pending struct {
		line   int
		rec    model.DailyRecord
		dateOK bool
	}
	var rows []pending

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}
		if isBlank(row) {
			continue
		}

		rec, ok := parseValues(ci, row)
		if !ok {
			report.Drop(fmt.Sprintf("line %d: invalid numeric value", line))
			continue
		}
		date, dateOK := normalizeDate(ci, row)
		rec.Date = date
		rows = append(rows, pending{line: line, rec: rec, dateOK: dateOK})
	}

	anyDate := false
	for _, p := range rows {
		if p.dateOK {
			anyDate = true
			break
		}
	}
	synthetic := !anyDate && len(rows) > 0 && opts.SyntheticDates
	if synthetic {
		start := dateOnly(opts.SyntheticStart)
		if opts.SyntheticStart.IsZero() {
			start = time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC)
		}
		for i := range rows {
			rows[i].rec.Date = start.AddDate(0, 0, i)
			rows[i].dateOK = true
		}
		report.Synthetic = true
		report.Warnings = append(report.Warnings, "no parseable dates; substituted a synthetic daily range")
	}

	records := make([]model.DailyRecord, 0, len(rows))
	for _, p := range rows {
		if !p.dateOK {
			report.Drop(fmt.Sprintf("line %d: unparseable date", p.line))
			continue
		}
		if !ci.has(colWeekday) {
			p.rec.Weekday = int(p.rec.Date.Weekday())
		}
		if err := utils.ValidateStruct(p.rec); err != nil {
			report.Drop(fmt.Sprintf("line %d: %v", p.line, err))
			continue
		}
		records = append(records, p.rec)
	}
	report.Rows = len(records)
	return records, report, nil
}

// parseValues 读取数值列，缺少 cnt 时取 casual+registered
func parseValues(ci columnIndex, row []string) (model.DailyRecord, bool) {
	var rec model.DailyRecord
	var ok bool

	if rec.Weather, ok = parseInt(ci.get(row, colWeather)); !ok {
		return rec, false
	}
	if rec.Casual, ok = parseInt(ci.get(row, colCasual)); !ok {
		return rec, false
	}
	if rec.Registered, ok = parseInt(ci.get(row, colRegistered)); !ok {
		return rec, false
	}
	if ci.has(colCount) {
		if rec.Count, ok = parseInt(ci.get(row, colCount)); !ok {
			return rec, false
		}
	} else {
		rec.Count = rec.Casual + rec.Registered
	}
	if ci.has(colWeekday) {
		if rec.Weekday, ok = parseInt(ci.get(row, colWeekday)); !ok {
			return rec, false
		}
	}
	return rec, true
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
