package constant

import (
	"strconv"
	"time"
)

// Workdays 与 WeekendDays 沿用数据集约定：0=周日 … 6=周六
var (
	Workdays    = []int{1, 2, 3, 4, 5}
	WeekendDays = []int{0, 6}
)

// WeekdayOrder 星期视图的展示顺序
var WeekdayOrder = []int{0, 1, 2, 3, 4, 5, 6}

// MonthOrder 月份视图的展示顺序
var MonthOrder = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

// WeekdayName 返回 0..6 编码对应的英文星期名
func WeekdayName(code int) string {
	if code < 0 || code > 6 {
		return "Day " + strconv.Itoa(code)
	}
	return time.Weekday(code).String()
}

// WeekdayMessageID 返回星期标签的 i18n 消息 ID
func WeekdayMessageID(code int) string {
	return "weekday." + strconv.Itoa(code)
}

// MonthName 返回 1..12 编码对应的英文月份名
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return "Month " + strconv.Itoa(month)
	}
	return time.Month(month).String()
}

// MonthMessageID 返回月份标签的 i18n 消息 ID
func MonthMessageID(month int) string {
	return "month." + strconv.Itoa(month)
}
