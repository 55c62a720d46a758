package roster

import (
	"sort"
	"strings"
)

// SortBySectionThenTeam 按 (section, team, name, email) 稳定排序，原地修改
func SortBySectionThenTeam(students []Student) {
	sort.SliceStable(students, func(i, j int) bool {
		a, b := students[i], students[j]
		if a.Section != b.Section {
			return a.Section < b.Section
		}
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		return lessByName(a, b)
	})
}

// SortByTeam 按 (team, name, email) 稳定排序，原地修改
func SortByTeam(students []Student) {
	sort.SliceStable(students, func(i, j int) bool {
		a, b := students[i], students[j]
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		return lessByName(a, b)
	})
}

func lessByName(a, b Student) bool {
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c < 0
	}
	return a.Email < b.Email
}

// SectionNames 返回去重、排序后的非默认分组名
func SectionNames(students []Student) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, s := range students {
		if s.Section == DefaultSection {
			continue
		}
		if _, ok := seen[s.Section]; ok {
			continue
		}
		seen[s.Section] = struct{}{}
		names = append(names, s.Section)
	}
	sort.Strings(names)
	return names
}
