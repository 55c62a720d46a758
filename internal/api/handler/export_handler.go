package handler

import (
	"bytes"
	"context"

	"github.com/gin-gonic/gin"

	"github.com/huming2207/Teammates-SEPT/internal/dto"
	"github.com/huming2207/Teammates-SEPT/internal/service"
	"github.com/huming2207/Teammates-SEPT/pkg/response"
)

type exportFunc func(ctx context.Context, courseID, googleID string) (*bytes.Buffer, string, error)

// 导出格式对应的 Content-Type
var exportContentTypes = map[string]string{
	"csv":  "text/csv; charset=utf-8",
	"pdf":  "application/pdf",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"json": "application/json; charset=utf-8",
}

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	courseSvc service.CourseService
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(courseSvc service.CourseService, exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{courseSvc: courseSvc, exportSvc: exportSvc}
}

// ExportStudentList 导出课程学生名单
// GET /api/v1/courses/:id/export?format=csv|pdf|xlsx|json
func (h *ExportHandler) ExportStudentList(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	var q dto.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "不支持的导出格式")
		return
	}

	googleID, ok := MustGetGoogleID(c)
	if !ok {
		return
	}

	format := q.GetFormat()
	buf, filename, err := h.exporter(format)(c.Request.Context(), courseID, googleID)
	if err != nil {
		handleCourseError(c, err)
		return
	}

	response.Attachment(c, filename, exportContentTypes[format], buf.Bytes())
}

func (h *ExportHandler) exporter(format string) exportFunc {
	switch format {
	case "pdf":
		return h.exportSvc.ExportStudentListPDF
	case "xlsx":
		return h.exportSvc.ExportStudentListXLSX
	case "json":
		return h.exportSvc.ExportStudentBackupJSON
	default:
		return h.exportSvc.ExportStudentListCSV
	}
}
