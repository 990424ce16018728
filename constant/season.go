package constant

import "strings"

// Season 固定的四个季节分组
type Season string

const (
	Winter Season = "Winter"
	Spring Season = "Spring"
	Summer Season = "Summer"
	Autumn Season = "Autumn"
)

// SeasonOrder 季节分组的展示顺序
var SeasonOrder = []Season{Winter, Spring, Summer, Autumn}

// SeasonOf 将月份映射到季节分组
// 接受任意整数，先归一到 1..12（13 → 1，0 → 12）
func SeasonOf(month int) Season {
	m := ((month-1)%12+12)%12 + 1
	switch m {
	case 12, 1, 2:
		return Winter
	case 3, 4, 5:
		return Spring
	case 6, 7, 8:
		return Summer
	default:
		return Autumn
	}
}

// Index 返回 s 在 SeasonOrder 中的位置，不存在时为 -1
func (s Season) Index() int {
	for i, v := range SeasonOrder {
		if v == s {
			return i
		}
	}
	return -1
}

// MessageID 返回季节标签的 i18n 消息 ID
func (s Season) MessageID() string {
	return "season." + strings.ToLower(string(s))
}
