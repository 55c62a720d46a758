package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huming2207/Teammates-SEPT/internal/dto"
	"github.com/huming2207/Teammates-SEPT/internal/model"
	"github.com/huming2207/Teammates-SEPT/internal/service"
	"github.com/huming2207/Teammates-SEPT/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	courseSvc  service.CourseService
	summarySvc service.CourseSummaryService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService, summarySvc service.CourseSummaryService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc, summarySvc: summarySvc}
}

// CreateCourse 创建课程并将调用者设为 Co-owner
// POST /api/v1/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	googleID, ok := MustGetGoogleID(c)
	if !ok {
		return
	}

	course, err := h.courseSvc.CreateCourseAndInstructor(c.Request.Context(), googleID, req.ID, req.Name, req.TimeZone)
	if err != nil {
		handleCourseError(c, err)
		return
	}

	response.Created(c, toCourseResponse(course))
}

// ListCourses 当前教师的课程摘要（含名册统计）
// GET /api/v1/courses?omit_archived=true
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var q dto.ListCoursesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	googleID, ok := MustGetGoogleID(c)
	if !ok {
		return
	}

	bundles, err := h.summarySvc.GetCourseSummariesForAccount(c.Request.Context(), googleID, q.OmitArchived)
	if errors.Is(err, service.ErrInstructorNotFound) {
		response.OK(c, gin.H{"list": []dto.CourseDetailsResponse{}})
		return
	}
	if err != nil {
		handleCourseError(c, err)
		return
	}

	archived, err := h.archivedSet(c, googleID, bundleCourses(bundles))
	if err != nil {
		handleCourseError(c, err)
		return
	}

	list := make([]dto.CourseDetailsResponse, 0, len(bundles))
	for _, id := range sortedKeys(bundles) {
		list = append(list, toCourseDetailsResponse(bundles[id], archived[id]))
	}
	response.OK(c, gin.H{"list": list})
}

// ListCourseSummaries 当前教师的课程摘要（不读取名册）
// GET /api/v1/courses/summary?omit_archived=true
func (h *CourseHandler) ListCourseSummaries(c *gin.Context) {
	var q dto.ListCoursesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	googleID, ok := MustGetGoogleID(c)
	if !ok {
		return
	}

	bundles, err := h.summarySvc.GetCourseSummariesWithoutStatsForAccount(c.Request.Context(), googleID, q.OmitArchived)
	if err != nil {
		handleCourseError(c, err)
		return
	}

	courses := make([]model.Course, 0, len(bundles))
	for _, b := range bundles {
		courses = append(courses, *b.Course)
	}
	archived, err := h.archivedSet(c, googleID, courses)
	if err != nil {
		handleCourseError(c, err)
		return
	}

	list := make([]dto.CourseSummaryResponse, 0, len(bundles))
	for _, id := range sortedKeys(bundles) {
		list = append(list, toCourseSummaryResponse(bundles[id], archived[id]))
	}
	response.OK(c, gin.H{"list": list})
}

// GetCourse 课程详情（名册 + 统计 + 反馈会话）
// GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	instructor, ok := h.mustGetInstructor(c)
	if !ok {
		return
	}

	bundle, err := h.summarySvc.GetCourseSummary(c.Request.Context(), instructor.CourseID)
	if err != nil {
		handleCourseError(c, err)
		return
	}

	response.OK(c, toCourseDetailsResponse(bundle, instructor.IsArchived))
}

// GetSections 课程名册（不含统计）
// GET /api/v1/courses/:id/sections
func (h *CourseHandler) GetSections(c *gin.Context) {
	instructor, ok := h.mustGetInstructor(c)
	if !ok {
		return
	}

	sections, err := h.summarySvc.GetSectionsWithoutStats(c.Request.Context(), instructor.CourseID)
	if err != nil {
		handleCourseError(c, err)
		return
	}

	response.OK(c, gin.H{"list": sections})
}

// GetTeams 按小组划分的名册
// GET /api/v1/courses/:id/teams
func (h *CourseHandler) GetTeams(c *gin.Context) {
	instructor, ok := h.mustGetInstructor(c)
	if !ok {
		return
	}

	teams, err := h.summarySvc.GetTeams(c.Request.Context(), instructor.CourseID)
	if err != nil {
		handleCourseError(c, err)
		return
	}

	response.OK(c, gin.H{"list": teams})
}

// GetSectionNames 课程的分组名
// GET /api/v1/courses/:id/section-names
func (h *CourseHandler) GetSectionNames(c *gin.Context) {
	instructor, ok := h.mustGetInstructor(c)
	if !ok {
		return
	}

	names, err := h.summarySvc.GetSectionNames(c.Request.Context(), instructor.CourseID)
	if err != nil {
		handleCourseError(c, err)
		return
	}

	response.OK(c, dto.SectionNamesResponse{
		SectionNames:         names,
		HasIndicatedSections: len(names) > 0,
	})
}

// UpdateCourse 修改课程名称与时区
// PUT /api/v1/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	instructor, ok := h.mustGetInstructor(c)
	if !ok {
		return
	}
	if !instructor.HasPrivilege(model.PrivilegeModifyCourse) {
		response.Forbidden(c, 20005, "没有修改该课程的权限")
		return
	}

	course, err := h.courseSvc.UpdateCourse(c.Request.Context(), instructor.CourseID, req.Name, req.TimeZone)
	if err != nil {
		handleCourseError(c, err)
		return
	}

	response.OK(c, toCourseResponse(course))
}

// DeleteCourse 级联删除课程
// DELETE /api/v1/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	instructor, ok := h.mustGetInstructor(c)
	if !ok {
		return
	}
	if !instructor.HasPrivilege(model.PrivilegeModifyCourse) {
		response.Forbidden(c, 20005, "没有删除该课程的权限")
		return
	}

	if err := h.courseSvc.DeleteCourseCascade(c.Request.Context(), instructor.CourseID); err != nil {
		handleCourseError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 内部辅助方法 ──

// mustGetInstructor 校验调用者是路径中课程的教师；失败时已写入响应
func (h *CourseHandler) mustGetInstructor(c *gin.Context) (*model.Instructor, bool) {
	courseID := c.Param("id")
	if courseID == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return nil, false
	}

	googleID, ok := MustGetGoogleID(c)
	if !ok {
		return nil, false
	}

	instructor, err := h.courseSvc.VerifyInstructorAccess(c.Request.Context(), courseID, googleID)
	if err != nil {
		handleCourseError(c, err)
		return nil, false
	}
	return instructor, true
}

func (h *CourseHandler) archivedSet(c *gin.Context, googleID string, courses []model.Course) (map[string]bool, error) {
	instructors, err := h.summarySvc.GetInstructorsForAccount(c.Request.Context(), googleID)
	if err != nil {
		return nil, err
	}

	ids := h.courseSvc.GetArchivedCourseIDs(courses, instructors)
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func bundleCourses(bundles map[string]*service.CourseDetailsBundle) []model.Course {
	courses := make([]model.Course, 0, len(bundles))
	for _, b := range bundles {
		courses = append(courses, *b.Course)
	}
	return courses
}

// handleCourseError 课程、名册与导出共用的错误映射
func handleCourseError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrFatalInternal), errors.Is(err, service.ErrInconsistentState):
		response.ServiceUnavailable(c)
	case errors.As(err, &validationErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, 20001, "课程字段校验失败", validationErr.Messages)
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 20002, "课程不存在")
	case errors.Is(err, service.ErrCourseAlreadyExists):
		response.Conflict(c, 20003, "课程ID已存在")
	case errors.Is(err, service.ErrCourseConcurrentUpdate):
		response.Conflict(c, 20004, "课程已被修改，请刷新后重试")
	case errors.Is(err, service.ErrNotInstructor):
		response.Forbidden(c, 20005, "该账号不是课程教师")
	case errors.Is(err, service.ErrAccountNotFound):
		response.NotFound(c, 20006, "账号不存在")
	case errors.Is(err, service.ErrInstructorNotFound):
		response.NotFound(c, 20007, "教师记录不存在")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 20008, "学生记录不存在")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 20101, "生成导出文件失败")
	default:
		response.InternalError(c)
	}
}
