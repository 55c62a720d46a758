package model

// Student 学生名册表：对应 students
// google_id 为空表示学生尚未加入课程（Yet to join）
type Student struct {
	StudentID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	CourseID    string `gorm:"type:varchar(40);not null;index"                json:"course_id"`
	Email       string `gorm:"type:varchar(255);not null"                     json:"email"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	LastName    string `gorm:"type:varchar(100);not null;default:''"          json:"last_name"`
	SectionName string `gorm:"type:varchar(60);not null"                      json:"section_name"`
	TeamName    string `gorm:"type:varchar(60);not null"                      json:"team_name"`
	GoogleID    string `gorm:"type:varchar(255);not null;default:''"          json:"google_id"`
	Comments    string `gorm:"type:text;not null;default:''"                  json:"comments"`
	BaseModel
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// IsRegistered 学生是否已绑定账号
func (s *Student) IsRegistered() bool { return s.GoogleID != "" }
