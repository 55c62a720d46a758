package model

import (
	"time"

	"gorm.io/datatypes"
)

// FeedbackSession 反馈会话表：对应 feedback_sessions
// 主键为 (course_id, session_name)
type FeedbackSession struct {
	CourseID     string    `gorm:"type:varchar(40);primaryKey"  json:"course_id"`
	SessionName  string    `gorm:"type:varchar(64);primaryKey"  json:"session_name"`
	CreatorEmail string    `gorm:"type:varchar(255);not null"   json:"creator_email"`
	Instructions string    `gorm:"type:text;not null;default:''" json:"instructions"`
	TimeZone     string    `gorm:"type:varchar(64);not null"    json:"time_zone"`
	StartTime    time.Time `gorm:"not null"                     json:"start_time"`
	EndTime      time.Time `gorm:"not null"                     json:"end_time"`
	BaseModel
}

// TableName 指定表名
func (FeedbackSession) TableName() string { return "feedback_sessions" }

// FeedbackResponse 反馈答复表：对应 feedback_responses
// 随所属会话级联删除
type FeedbackResponse struct {
	ResponseID  string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"response_id"`
	CourseID    string         `gorm:"type:varchar(40);not null;index"                json:"course_id"`
	SessionName string         `gorm:"type:varchar(64);not null"                      json:"session_name"`
	Giver       string         `gorm:"type:varchar(255);not null"                     json:"giver"`
	Recipient   string         `gorm:"type:varchar(255);not null"                     json:"recipient"`
	Answer      datatypes.JSON `gorm:"type:jsonb"                                     json:"answer"`
	BaseModel
}

// TableName 指定表名
func (FeedbackResponse) TableName() string { return "feedback_responses" }
