package handler

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bikeshare-go/internal/dto"
	"bikeshare-go/internal/service"
	"bikeshare-go/pkg/logging"
	"bikeshare-go/response"
)

// 导出响应携带的筛选结果头
const (
	FilterMatchedHeader  = "X-Filter-Matched"
	FilterFallbackHeader = "X-Filter-Fallback"
	FilterNoticeHeader   = "X-Filter-Notice"
)

// SummaryHandler 汇总指标（GET /api/dashboard/summary）
func SummaryHandler(c *gin.Context) {
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	view, err := service.GetSummary(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(view, "success"))
}

// WeatherHandler 周末天气影响（GET /api/dashboard/weather）
func WeatherHandler(c *gin.Context) {
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	view, err := service.GetWeatherView(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(view, "success"))
}

// SeasonHandler 季节趋势（GET /api/dashboard/season）
func SeasonHandler(c *gin.Context) {
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	view, err := service.GetSeasonView(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(view, "success"))
}

// UsersHandler 散客与注册用户对比（GET /api/dashboard/users）
func UsersHandler(c *gin.Context) {
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	view, err := service.GetUsersView(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(view, "success"))
}

// ListRecordsHandler 分页查询筛选后的记录（GET /api/records?page=1&size=20）
func ListRecordsHandler(c *gin.Context) {
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	var page dto.PageQuery
	if !bindQuery(c, &page) {
		return
	}

	pageResp, meta, err := service.ListRecords(c.Request.Context(), f, page.Page, page.Size)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(gin.H{"filter": meta, "page": pageResp}, "success"))
}

// ExportHandler 下载筛选后的数据（GET /api/export?format=csv|xlsx）
func ExportHandler(c *gin.Context) {
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	var q dto.ExportQuery
	if !bindQuery(c, &q) {
		return
	}

	ds, result := service.FilterCurrent(f)

	var buf bytes.Buffer
	var err error
	if q.Format == service.ExportXLSX {
		err = service.WriteXLSX(&buf, result.Records)
	} else {
		err = service.WriteCSV(&buf, result.Records, q.BOM)
	}
	if err != nil {
		logging.Logger.Error("Export failed",
			zap.String("format", q.Format),
			zap.Int("rows", len(result.Records)),
			zap.Error(err))
		_ = c.Error(err)
		return
	}

	// 空结果时文件本身看不出是否回退，提示放在响应头里
	meta := service.LocalizedFilterMeta(c.Request.Context(), ds, result)
	c.Header(FilterMatchedHeader, strconv.Itoa(meta.Matched))
	c.Header(FilterFallbackHeader, strconv.FormatBool(meta.FellBack))
	if meta.Notice != "" {
		c.Header(FilterNoticeHeader, mime.QEncoding.Encode("utf-8", meta.Notice))
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.ExportFileName(q.Format)))
	c.Data(http.StatusOK, service.ContentType(q.Format), buf.Bytes())
}

// ChartHandler PNG 图表（GET /api/charts/:name）
func ChartHandler(c *gin.Context) {
	f, ok := bindFilter(c)
	if !ok {
		return
	}
	var q dto.ChartQuery
	if !bindQuery(c, &q) {
		return
	}

	var buf bytes.Buffer
	if err := service.RenderChart(c.Request.Context(), c.Param("name"), q.Metric, f, &buf); err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
