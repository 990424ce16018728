package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"bikeshare-go/internal/apperrors"
	"bikeshare-go/internal/dto"
	"bikeshare-go/internal/i18n"
	"bikeshare-go/internal/model"
	"bikeshare-go/internal/repository"
	"bikeshare-go/internal/service"
	"bikeshare-go/pkg/logging"
	"bikeshare-go/pkg/utils"
	"bikeshare-go/response"
)

const defaultMaxUploadBytes = 10 << 20

func datasetInfo(c *gin.Context, ds *model.Dataset) dto.DatasetInfo {
	warnings := make([]string, len(ds.Report.Warnings))
	for i, w := range ds.Report.Warnings {
		warnings[i] = i18n.T(c.Request.Context(), w, nil)
	}

	info := dto.DatasetInfo{
		Source:    ds.Report.Source,
		Rows:      len(ds.Records),
		Dropped:   ds.Report.Dropped,
		Synthetic: ds.Report.Synthetic,
		Warnings:  warnings,
		Version:   ds.Version,
		LoadedAt:  ds.LoadedAt,
	}
	if lo, hi := ds.DateRange(); !lo.IsZero() {
		info.MinDate = lo.Format(utils.DateLayout)
		info.MaxDate = hi.Format(utils.DateLayout)
	}
	return info
}

// GetDatasetHandler 当前数据集概况（GET /api/dataset）
func GetDatasetHandler(c *gin.Context) {
	c.JSON(http.StatusOK, response.OK(datasetInfo(c, repository.Datasets.Current()), "success"))
}

// UploadDatasetHandler 上传 CSV 替换内存数据集（POST /api/dataset，multipart 字段 file）
func UploadDatasetHandler(c *gin.Context) {
	maxBytes := viper.GetInt64("dataset.max_upload_bytes")
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = c.Error(apperrors.BusinessError(http.StatusRequestEntityTooLarge, "error.upload_too_large"))
			return
		}
		logging.Logger.Warn("Upload form parsing failed", zap.Error(err))
		_ = c.Error(apperrors.InvalidRequestError("error.upload_required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(apperrors.SystemError("error.system", err))
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logging.Logger.Warn("Failed to close uploaded file", zap.Error(cerr))
		}
	}()

	ds, err := service.UploadDataset(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(datasetInfo(c, ds), "success"))
}

// ReloadDatasetHandler 重新加载候选数据源（POST /api/dataset/reload）
func ReloadDatasetHandler(c *gin.Context) {
	ds := service.ReloadDataset(c.Request.Context(), "api")
	c.JSON(http.StatusOK, response.OK(datasetInfo(c, ds), "success"))
}

// HealthHandler 存活检查（GET /healthz）
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, response.OK(gin.H{"status": "ok", "datasetVersion": repository.Datasets.Current().Version}, "success"))
}
