package model

import "gorm.io/datatypes"

// 教师角色
const (
	InstructorRoleCoowner  = "Co-owner"
	InstructorRoleManager  = "Manager"
	InstructorRoleObserver = "Observer"
	InstructorRoleTutor    = "Tutor"
)

// Instructor 课程教师表：对应 instructors
// (course_id, email) 唯一；google_id 为空表示教师尚未绑定账号
type Instructor struct {
	InstructorID          string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"instructor_id"`
	CourseID              string            `gorm:"type:varchar(40);not null;index"                json:"course_id"`
	GoogleID              *string           `gorm:"type:varchar(255);index"                        json:"google_id,omitempty"`
	Name                  string            `gorm:"type:varchar(100);not null"                     json:"name"`
	Email                 string            `gorm:"type:varchar(255);not null"                     json:"email"`
	Role                  string            `gorm:"type:varchar(20);not null"                      json:"role"`
	DisplayName           string            `gorm:"type:varchar(100);not null;default:''"          json:"display_name"`
	IsArchived            bool              `gorm:"not null;default:false"                         json:"is_archived"`
	IsDisplayedToStudents bool              `gorm:"not null;default:true"                          json:"is_displayed_to_students"`
	Privileges            datatypes.JSONMap `gorm:"type:jsonb"                                     json:"privileges"`
	BaseModel
}

// TableName 指定表名
func (Instructor) TableName() string { return "instructors" }

// CoownerPrivileges 课程所有者拥有的全部权限
func CoownerPrivileges() datatypes.JSONMap {
	return datatypes.JSONMap{
		PrivilegeModifyCourse:              true,
		"canmodifyinstructor":              true,
		"canmodifysession":                 true,
		"canmodifystudent":                 true,
		"canviewstudentinsection":          true,
		"canviewsessioninsection":          true,
		"cansubmitsessioninsection":        true,
		"canmodifysessioncommentinsection": true,
	}
}

// 课程级权限名
const PrivilegeModifyCourse = "canmodifycourse"

// HasPrivilege 权限值必须为 true；缺失或非布尔值视为无权限
func (i *Instructor) HasPrivilege(name string) bool {
	v, ok := i.Privileges[name].(bool)
	return ok && v
}
