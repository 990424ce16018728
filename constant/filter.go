package constant

// DayType 按星期划分的子集
type DayType string

const (
	DayTypeAll     DayType = "all"
	DayTypeWeekday DayType = "weekday"
	DayTypeWeekend DayType = "weekend"
)

// Weekdays 返回该类型包含的星期，"all" 返回 nil
func (d DayType) Weekdays() []int {
	switch d {
	case DayTypeWeekday:
		return Workdays
	case DayTypeWeekend:
		return WeekendDays
	default:
		return nil
	}
}

// UserType 决定哪一列作为主指标
type UserType string

const (
	UserTypeAll        UserType = "all"
	UserTypeCasual     UserType = "casual"
	UserTypeRegistered UserType = "registered"
)
