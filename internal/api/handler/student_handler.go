package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/huming2207/Teammates-SEPT/internal/dto"
	"github.com/huming2207/Teammates-SEPT/internal/service"
	"github.com/huming2207/Teammates-SEPT/pkg/response"
)

// StudentHandler 学生视角的课程查询
type StudentHandler struct {
	summarySvc service.CourseSummaryService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(summarySvc service.CourseSummaryService) *StudentHandler {
	return &StudentHandler{summarySvc: summarySvc}
}

// ListMyCourses 当前账号作为学生加入的课程及其名册
// GET /api/v1/students/me/courses
func (h *StudentHandler) ListMyCourses(c *gin.Context) {
	googleID, ok := MustGetGoogleID(c)
	if !ok {
		return
	}

	bundles, err := h.summarySvc.GetCourseDetailsListForStudent(c.Request.Context(), googleID)
	if err != nil && !errors.Is(err, service.ErrStudentNotFound) {
		handleCourseError(c, err)
		return
	}

	list := make([]dto.CourseDetailsResponse, 0, len(bundles))
	for _, b := range bundles {
		list = append(list, toCourseDetailsResponse(b, false))
	}
	response.OK(c, gin.H{"list": list})
}
