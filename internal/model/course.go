package model

// Course 课程表：对应 courses
// course_id 创建后不可修改；time_zone 为 IANA 时区标识（如 Asia/Singapore）
type Course struct {
	CourseID string `gorm:"type:varchar(40);primaryKey"   json:"course_id"`
	Name     string `gorm:"type:varchar(64);not null"     json:"name"`
	TimeZone string `gorm:"type:varchar(64);not null"     json:"time_zone"`
	VersionedModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// Account 账号表：对应 accounts
// 账号由外部身份提供方创建，本服务只读
type Account struct {
	GoogleID     string `gorm:"type:varchar(255);primaryKey" json:"google_id"`
	Name         string `gorm:"type:varchar(100);not null"   json:"name"`
	Email        string `gorm:"type:varchar(255);not null"   json:"email"`
	IsInstructor bool   `gorm:"not null;default:false"       json:"is_instructor"`
	BaseModel
}

// TableName 指定表名
func (Account) TableName() string { return "accounts" }
