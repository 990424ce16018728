package dto

// FilterQuery 仪表盘筛选参数（GET 查询串），msg 标签为 i18n 消息 ID
type FilterQuery struct {
	Start    string `form:"start" binding:"omitempty,datetime=2006-01-02" msg:"error.date_invalid"`
	End      string `form:"end" binding:"omitempty,datetime=2006-01-02" msg:"error.date_invalid"`
	DayType  string `form:"dayType" binding:"omitempty,oneof=all weekday weekend"`
	Weekday  []int  `form:"weekday" binding:"omitempty,dive,min=0,max=6" msg:"error.weekday_invalid"`
	Weather  int    `form:"weather" binding:"omitempty,min=1,max=4"`
	UserType string `form:"userType" binding:"omitempty,oneof=all casual registered"`
}

// PageQuery 分页参数
type PageQuery struct {
	Page int `form:"page,default=1" binding:"min=1"`
	Size int `form:"size,default=20" binding:"min=1,max=100"`
}

// ExportQuery 导出参数
type ExportQuery struct {
	Format string `form:"format,default=csv" binding:"oneof=csv xlsx" msg:"error.export_format"`
	BOM    bool   `form:"bom"`
}

// ChartQuery 图表参数，metric 仅对季节图有效
type ChartQuery struct {
	Metric string `form:"metric,default=mean" binding:"oneof=mean sum"`
}
