package model

import "time"

// DailyRecord 单日租赁记录
type DailyRecord struct {
	Date       time.Time `gorm:"column:dteday;type:date;index" json:"date"`
	Weekday    int       `gorm:"column:weekday" json:"weekday" validate:"min=0,max=6"`
	Weather    int       `gorm:"column:weathersit" json:"weathersit" validate:"min=1,max=4"`
	Count      int       `gorm:"column:cnt" json:"cnt" validate:"min=0"`
	Casual     int       `gorm:"column:casual" json:"casual" validate:"min=0"`
	Registered int       `gorm:"column:registered" json:"registered" validate:"min=0"`
}
