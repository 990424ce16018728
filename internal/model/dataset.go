package model

import "time"

// LoadReport 数据集加载报告
type LoadReport struct {
	Source   string   `json:"source"`
	Rows     int      `json:"rows"`
	Dropped  int      `json:"dropped"`
	Warnings []string `json:"warnings,omitempty"`
	// Synthetic 来源没有可用日期、改用生成的日期区间时为 true
	Synthetic bool `json:"synthetic"`
}

// Dataset 内存中的数据集快照；Version 为进程内递增序号，Fingerprint 为内容指纹
type Dataset struct {
	Records     []DailyRecord
	Report      LoadReport
	Version     int64
	Fingerprint string
	LoadedAt    time.Time
}

// DateRange 返回记录的最早与最晚日期，空数据集返回零值
func (d *Dataset) DateRange() (time.Time, time.Time) {
	if d == nil || len(d.Records) == 0 {
		return time.Time{}, time.Time{}
	}
	lo, hi := d.Records[0].Date, d.Records[0].Date
	for _, r := range d.Records[1:] {
		if r.Date.Before(lo) {
			lo = r.Date
		}
		if r.Date.After(hi) {
			hi = r.Date
		}
	}
	return lo, hi
}

// maxWarnings LoadReport 中保留的逐行警告上限
const maxWarnings = 20

// Drop 计数被丢弃的行，未达上限时保留警告
func (r *LoadReport) Drop(msg string) {
	r.Dropped++
	if len(r.Warnings) < maxWarnings {
		r.Warnings = append(r.Warnings, msg)
	}
}
