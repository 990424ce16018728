package dto

import "time"

// DatasetInfo 当前数据集的概况
type DatasetInfo struct {
	Source    string    `json:"source"`
	Rows      int       `json:"rows"`
	Dropped   int       `json:"dropped"`
	Synthetic bool      `json:"synthetic"`
	Warnings  []string  `json:"warnings"`
	Version   int64     `json:"version"`
	LoadedAt  time.Time `json:"loadedAt"`
	MinDate   string    `json:"minDate,omitempty"`
	MaxDate   string    `json:"maxDate,omitempty"`
}
