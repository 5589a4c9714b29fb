package analytics

// Package analytics computes a derived usage snapshot over the document and
// download-event collections. Compute is a pure function: it never touches
// storage, never caches, and identical inputs (including the injected clock)
// produce identical output.

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"studyhub/internal/model"
)

// TimeRange selects the analytics window.
type TimeRange string

const (
	Week  TimeRange = "week"
	Month TimeRange = "month"
	Year  TimeRange = "year"
)

// ParseTimeRange maps a query value onto a TimeRange, defaulting to Month.
func ParseTimeRange(s string) TimeRange {
	switch TimeRange(s) {
	case Week, Month, Year:
		return TimeRange(s)
	default:
		return Month
	}
}

// Bucket is one slot of a time series: a human label and a count.
type Bucket struct {
	Period string
	Count  int
}

// CourseCount is one entry of the course distribution.
type CourseCount struct {
	Course    string
	Documents int
}

// TypeSlice is one slice of the document-type distribution, carrying the
// fixed chart color for its type.
type TypeSlice struct {
	Name  string
	Value int
	Fill  string
}

// ProfessorRank is one entry of the top-professors ranking. Course is the
// comma-joined set of distinct courses the professor appears under within
// the window, in first-seen order.
type ProfessorRank struct {
	Name      string
	Course    string
	Documents int
}

// Activity is one recent-activity feed entry. Time is a human relative-time
// label rendered at response time; it is never persisted.
type Activity struct {
	Type      string
	Document  string
	Time      string
	Timestamp time.Time
}

const (
	ActivityUpload   = "upload"
	ActivityDownload = "download"
)

// Analytics is the computed snapshot for one TimeRange.
type Analytics struct {
	TotalDocuments int
	// TotalDownloads sums the all-time download counters of in-window
	// documents, not in-window download events. Preserved from the original
	// system so local and pre-aggregated remote responses agree.
	TotalDownloads     int
	UniqueCourses      int
	UniqueProfessors   int
	UploadsOverTime    []Bucket
	CourseDistribution []CourseCount
	DocumentTypes      []TypeSlice
	TopProfessors      []ProfessorRank
	DownloadTrends     []Bucket
	RecentActivity     []Activity
	TimeRange          TimeRange
}

// typeColors is the fixed six-entry palette; "other" doubles as the fallback.
var typeColors = map[model.FileType]string{
	model.FileTypePDF:        "hsl(0, 84%, 60%)",
	model.FileTypeExcel:      "hsl(142, 71%, 45%)",
	model.FileTypePowerPoint: "hsl(25, 95%, 53%)",
	model.FileTypePython:     "hsl(207, 90%, 54%)",
	model.FileTypeJava:       "hsl(262, 83%, 58%)",
	model.FileTypeOther:      "hsl(215, 16%, 47%)",
}

// Compute builds the full snapshot for the requested window. Documents are
// expected newest-first (collection order); that order acts as the tie-break
// for every count-sorted ranking.
func Compute(documents []model.Document, events []model.DownloadEvent, tr TimeRange, now time.Time) Analytics {
	start := windowStart(tr, now)

	docs := make([]model.Document, 0, len(documents))
	for _, d := range documents {
		if !d.UploadedAt.Before(start) {
			docs = append(docs, d)
		}
	}
	evs := make([]model.DownloadEvent, 0, len(events))
	for _, e := range events {
		if !e.Timestamp.Before(start) {
			evs = append(evs, e)
		}
	}

	totalDownloads := 0
	courses := make(map[string]struct{})
	professors := make(map[string]struct{})
	for _, d := range docs {
		totalDownloads += d.Downloads
		courses[d.Course] = struct{}{}
		professors[d.Professor] = struct{}{}
	}

	docTimes := make([]time.Time, len(docs))
	for i, d := range docs {
		docTimes[i] = d.UploadedAt
	}
	evTimes := make([]time.Time, len(evs))
	for i, e := range evs {
		evTimes[i] = e.Timestamp
	}

	return Analytics{
		TotalDocuments:     len(docs),
		TotalDownloads:     totalDownloads,
		UniqueCourses:      len(courses),
		UniqueProfessors:   len(professors),
		UploadsOverTime:    bucketCounts(tr, now, docTimes),
		CourseDistribution: courseDistribution(docs),
		DocumentTypes:      typeDistribution(docs),
		TopProfessors:      topProfessors(docs),
		DownloadTrends:     bucketCounts(tr, now, evTimes),
		RecentActivity:     recentActivity(docs, evs, now),
		TimeRange:          tr,
	}
}

// windowStart computes the window's inclusive lower bound at local midnight:
// week = day-7, month = calendar month-1, year = calendar year-1.
func windowStart(tr TimeRange, now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch tr {
	case Week:
		return day.AddDate(0, 0, -7)
	case Year:
		return day.AddDate(-1, 0, 0)
	default:
		return day.AddDate(0, -1, 0)
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// bucketCounts produces the shared time-series shape: 7 daily buckets for a
// week, 4 weekly buckets ending today for a month, 12 monthly buckets ending
// this month for a year. Oldest bucket first.
func bucketCounts(tr TimeRange, now time.Time, times []time.Time) []Bucket {
	switch tr {
	case Week:
		out := make([]Bucket, 0, 7)
		for i := 6; i >= 0; i-- {
			day := now.AddDate(0, 0, -i)
			count := 0
			for _, t := range times {
				if sameDay(t, day) {
					count++
				}
			}
			out = append(out, Bucket{Period: day.Format("Mon"), Count: count})
		}
		return out
	case Year:
		out := make([]Bucket, 0, 12)
		for i := 11; i >= 0; i-- {
			m := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
			count := 0
			for _, t := range times {
				if t.Year() == m.Year() && t.Month() == m.Month() {
					count++
				}
			}
			out = append(out, Bucket{Period: m.Format("Jan"), Count: count})
		}
		return out
	default:
		out := make([]Bucket, 0, 4)
		for i := 3; i >= 0; i-- {
			weekEnd := now.AddDate(0, 0, -7*i)
			ws := weekEnd.AddDate(0, 0, -6)
			weekStart := time.Date(ws.Year(), ws.Month(), ws.Day(), 0, 0, 0, 0, ws.Location())
			count := 0
			for _, t := range times {
				if !t.Before(weekStart) && !t.After(weekEnd) {
					count++
				}
			}
			out = append(out, Bucket{Period: fmt.Sprintf("Week %d", 4-i), Count: count})
		}
		return out
	}
}

func courseDistribution(docs []model.Document) []CourseCount {
	index := make(map[string]int)
	out := make([]CourseCount, 0)
	for _, d := range docs {
		i, ok := index[d.Course]
		if !ok {
			i = len(out)
			index[d.Course] = i
			out = append(out, CourseCount{Course: d.Course})
		}
		out[i].Documents++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Documents > out[j].Documents })
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

func typeDistribution(docs []model.Document) []TypeSlice {
	index := make(map[model.FileType]int)
	order := make([]model.FileType, 0)
	counts := make(map[model.FileType]int)
	for _, d := range docs {
		if _, ok := index[d.FileType]; !ok {
			index[d.FileType] = len(order)
			order = append(order, d.FileType)
		}
		counts[d.FileType]++
	}

	out := make([]TypeSlice, 0, len(order))
	for _, ft := range order {
		fill, ok := typeColors[ft]
		if !ok {
			fill = typeColors[model.FileTypeOther]
		}
		out = append(out, TypeSlice{
			Name:  capitalize(string(ft)),
			Value: counts[ft],
			Fill:  fill,
		})
	}
	return out
}

func topProfessors(docs []model.Document) []ProfessorRank {
	type profAgg struct {
		name    string
		courses []string
		seen    map[string]struct{}
		docs    int
	}

	index := make(map[string]int)
	aggs := make([]*profAgg, 0)
	for _, d := range docs {
		i, ok := index[d.Professor]
		if !ok {
			i = len(aggs)
			index[d.Professor] = i
			aggs = append(aggs, &profAgg{name: d.Professor, seen: make(map[string]struct{})})
		}
		a := aggs[i]
		if _, ok := a.seen[d.Course]; !ok {
			a.seen[d.Course] = struct{}{}
			a.courses = append(a.courses, d.Course)
		}
		a.docs++
	}

	sort.SliceStable(aggs, func(i, j int) bool { return aggs[i].docs > aggs[j].docs })
	if len(aggs) > 5 {
		aggs = aggs[:5]
	}

	out := make([]ProfessorRank, len(aggs))
	for i, a := range aggs {
		out[i] = ProfessorRank{Name: a.name, Course: joinCourses(a.courses), Documents: a.docs}
	}
	return out
}

func joinCourses(courses []string) string {
	s := ""
	for i, c := range courses {
		if i > 0 {
			s += ", "
		}
		s += c
	}
	return s
}

// recentActivity merges the newest 10 uploads with the latest 10 resolvable
// download events, sorts descending by timestamp and keeps the top 5.
func recentActivity(docs []model.Document, events []model.DownloadEvent, now time.Time) []Activity {
	out := make([]Activity, 0, 20)

	uploads := docs
	if len(uploads) > 10 {
		uploads = uploads[:10]
	}
	for _, d := range uploads {
		out = append(out, Activity{
			Type:      ActivityUpload,
			Document:  d.Title,
			Time:      timeAgo(d.UploadedAt, now),
			Timestamp: d.UploadedAt,
		})
	}

	titles := make(map[string]string, len(docs))
	for _, d := range docs {
		titles[d.ID] = d.Title
	}

	recent := events
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	for _, e := range recent {
		title, ok := titles[e.DocumentID]
		if !ok {
			// Event references a document outside the window or deleted by a
			// folder cascade; drop it.
			continue
		}
		out = append(out, Activity{
			Type:      ActivityDownload,
			Document:  title,
			Time:      timeAgo(e.Timestamp, now),
			Timestamp: e.Timestamp,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

// timeAgo renders a relative label; beyond a week it falls back to an
// absolute short date.
func timeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// TypeSliceFor rebuilds a distribution slice from its wire form (lowercase
// type tag plus count), reattaching the label casing and palette color.
func TypeSliceFor(fileType string, value int) TypeSlice {
	tag := strings.ToLower(fileType)
	fill, ok := typeColors[model.FileType(tag)]
	if !ok {
		fill = typeColors[model.FileTypeOther]
	}
	return TypeSlice{Name: capitalize(tag), Value: value, Fill: fill}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
