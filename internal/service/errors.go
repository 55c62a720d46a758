package service

import (
	"errors"
	"strings"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound         = errors.New("课程不存在")
	ErrCourseAlreadyExists    = errors.New("课程ID已存在")
	ErrCourseConcurrentUpdate = errors.New("课程已被其他请求修改，请刷新后重试")
	ErrInvalidCourseFields    = errors.New("课程字段校验失败")
)

// ── 名册与账号业务错误 ──

var (
	ErrStudentNotFound    = errors.New("学生记录不存在")
	ErrInstructorNotFound = errors.New("教师记录不存在")
	ErrAccountNotFound    = errors.New("账号不存在")
	ErrNotInstructor      = errors.New("该账号没有教师权限")
)

// ── 内部错误 ──

var (
	// ErrInconsistentState 跨存储引用不一致（如教师记录引用了已删除的课程）
	ErrInconsistentState = errors.New("数据状态不一致")
	// ErrFatalInternal 不应发生的内部错误；返回前已尝试补偿
	ErrFatalInternal = errors.New("服务内部错误")
)

// ValidationError 课程字段校验失败，Messages 包含全部字段的错误信息
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return ErrInvalidCourseFields.Error() + ": " + strings.Join(e.Messages, "; ")
}

// Is 使 errors.Is(err, ErrInvalidCourseFields) 成立
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidCourseFields
}
