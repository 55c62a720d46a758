// Package roster 将课程学生名册划分为 Section → Team → Student 的层级结构。
//
// 本包为纯函数实现，不访问存储，也不持有任何跨请求状态；
// 调用方负责在划分前按 (section, team) 排序。
package roster

// DefaultSection 未指定分组的学生所在的默认分组名，不计入 SectionsTotal
const DefaultSection = "Not Sectioned"

// Student 名册中的一名学生（划分算法的输入）
type Student struct {
	CourseID string `json:"course"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Section  string `json:"section"`
	Team     string `json:"team"`
	GoogleID string `json:"google_id"`
	Comments string `json:"comments"`
}

// IsRegistered 学生是否已绑定外部账号
func (s Student) IsRegistered() bool { return s.GoogleID != "" }

// Team 同一 (section, team) 下的学生
type Team struct {
	Name     string    `json:"name"`
	Students []Student `json:"students"`
}

// Section 同一 section 下按出现顺序排列的小组
type Section struct {
	Name  string `json:"name"`
	Teams []Team `json:"teams"`
}

// Stats 名册统计
type Stats struct {
	StudentsTotal     int `json:"students_total"`
	UnregisteredTotal int `json:"unregistered_total"`
	TeamsTotal        int `json:"teams_total"`
	SectionsTotal     int `json:"sections_total"`
}

// Partition 单次线性扫描完成分组并累计统计。
// students 必须已按 (section, team) 排序；空输入返回空切片与零值统计。
func Partition(students []Student) ([]Section, Stats) {
	var stats Stats
	sections := partition(students, &stats)
	return sections, stats
}

// PartitionWithoutStats 与 Partition 分组结果完全一致，但不累计统计
func PartitionWithoutStats(students []Student) []Section {
	return partition(students, nil)
}

// partition 按值变化检测分组边界；stats 为 nil 时跳过统计
func partition(students []Student, stats *Stats) []Section {
	sections := make([]Section, 0)

	var current *Section
	teamIdx := 0

	openSection := func(s Student) {
		current = &Section{
			Name:  s.Section,
			Teams: []Team{{Name: s.Team, Students: []Student{s}}},
		}
		teamIdx = 0
		if stats != nil {
			stats.TeamsTotal++
		}
	}

	closeSection := func() {
		sections = append(sections, *current)
		if stats != nil && current.Name != DefaultSection {
			stats.SectionsTotal++
		}
	}

	for i, s := range students {
		if stats != nil {
			stats.StudentsTotal++
			if !s.IsRegistered() {
				stats.UnregisteredTotal++
			}
		}

		switch {
		case current == nil:
			openSection(s)
		case s.Section == current.Name:
			if team := &current.Teams[teamIdx]; s.Team == team.Name {
				team.Students = append(team.Students, s)
			} else {
				current.Teams = append(current.Teams, Team{Name: s.Team, Students: []Student{s}})
				teamIdx++
				if stats != nil {
					stats.TeamsTotal++
				}
			}
		default:
			closeSection()
			openSection(s)
		}

		if i == len(students)-1 {
			closeSection()
		}
	}

	return sections
}

// GroupTeams 仅按 team 分组（不区分 section）。
// students 必须已按 team 排序。
func GroupTeams(students []Student) []Team {
	teams := make([]Team, 0)

	var current *Team
	for _, s := range students {
		if current != nil && s.Team == current.Name {
			current.Students = append(current.Students, s)
			continue
		}
		if current != nil {
			teams = append(teams, *current)
		}
		current = &Team{Name: s.Team, Students: []Student{s}}
	}
	if current != nil {
		teams = append(teams, *current)
	}

	return teams
}

// Flatten 按分组顺序展开为学生序列
func Flatten(sections []Section) []Student {
	var out []Student
	for _, sec := range sections {
		for _, team := range sec.Teams {
			out = append(out, team.Students...)
		}
	}
	return out
}

// HasIndicatedSections 是否存在任一学生位于非默认分组
func HasIndicatedSections(students []Student) bool {
	for _, s := range students {
		if s.Section != DefaultSection {
			return true
		}
	}
	return false
}
