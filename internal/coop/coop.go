package coop

// Package coop derives the by-company directory view over the co-op
// collection. Grouping is case-sensitive exact match on the company name with
// no normalization.

import (
	"sort"
	"strconv"
	"strings"

	"studyhub/internal/model"
)

// Group is one company's entries, in the member order produced by SortMembers.
type Group struct {
	Company string
	Coops   []model.Coop
	Count   int
}

// GroupByCompany groups co-ops by company, sorts groups descending by member
// count (first-seen company order breaks ties) and sorts each group's members.
func GroupByCompany(coops []model.Coop) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, c := range coops {
		i, ok := index[c.Company]
		if !ok {
			i = len(groups)
			index[c.Company] = i
			groups = append(groups, Group{Company: c.Company})
		}
		groups[i].Coops = append(groups[i].Coops, c)
		groups[i].Count++
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	for i := range groups {
		SortMembers(groups[i].Coops)
	}
	return groups
}

// SortMembers orders a group's entries for display: current status before
// past, then newest semester first.
func SortMembers(coops []model.Coop) {
	sort.SliceStable(coops, func(i, j int) bool {
		a, b := coops[i], coops[j]
		if a.Status != b.Status {
			return a.Status == model.CoopCurrent
		}
		return semesterLess(b.Semester, a.Semester)
	})
}

// seasonRank orders seasons within one calendar year.
var seasonRank = map[string]int{
	"spring": 0,
	"summer": 1,
	"fall":   2,
	"winter": 3,
}

// semesterLess compares "Season Year" strings chronologically. A plain
// lexical compare mis-orders semesters across year boundaries ("Fall 2023"
// sorts after "Spring 2024"), so the year is compared first. Values that do
// not parse fall back to lexical compare.
func semesterLess(a, b string) bool {
	ay, as, aok := parseSemester(a)
	by, bs, bok := parseSemester(b)
	if !aok || !bok {
		return a < b
	}
	if ay != by {
		return ay < by
	}
	return as < bs
}

func parseSemester(s string) (year, season int, ok bool) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, 0, false
	}
	season, okSeason := seasonRank[strings.ToLower(fields[0])]
	if !okSeason {
		return 0, 0, false
	}
	year, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, false
	}
	return year, season, true
}
