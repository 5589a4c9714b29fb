package wire

import (
	"strings"
	"time"

	"studyhub/internal/analytics"
)

// Bucket is one time-series slot on the wire.
type Bucket struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

type CourseCount struct {
	Course string `json:"course"`
	Count  int    `json:"count"`
}

type TypeCount struct {
	FileType string `json:"file_type"`
	Count    int    `json:"count"`
}

type ProfessorCount struct {
	Professor string `json:"professor"`
	Course    string `json:"course"`
	Count     int    `json:"count"`
}

type ActivityItem struct {
	ActivityType  string    `json:"activity_type"`
	DocumentTitle string    `json:"document_title"`
	TimeAgo       string    `json:"time_ago"`
	Timestamp     time.Time `json:"timestamp"`
}

// Analytics is the pre-aggregated payload of GET /analytics.
type Analytics struct {
	TotalDocuments     int              `json:"total_documents"`
	TotalDownloads     int              `json:"total_downloads"`
	UniqueCourses      int              `json:"unique_courses"`
	UniqueProfessors   int              `json:"unique_professors"`
	UploadsOverTime    []Bucket         `json:"uploads_over_time"`
	CourseDistribution []CourseCount    `json:"course_distribution"`
	DocumentTypes      []TypeCount      `json:"document_types"`
	TopProfessors      []ProfessorCount `json:"top_professors"`
	DownloadTrends     []Bucket         `json:"download_trends"`
	RecentActivity     []ActivityItem   `json:"recent_activity"`
	TimeRange          string           `json:"time_range"`
}

func fromBuckets(in []analytics.Bucket) []Bucket {
	out := make([]Bucket, len(in))
	for i, b := range in {
		out[i] = Bucket{Period: b.Period, Count: b.Count}
	}
	return out
}

func toBuckets(in []Bucket) []analytics.Bucket {
	out := make([]analytics.Bucket, len(in))
	for i, b := range in {
		out[i] = analytics.Bucket{Period: b.Period, Count: b.Count}
	}
	return out
}

// FromAnalytics maps the computed snapshot to its wire form. Chart colors and
// label casing are presentation details reattached on the receiving side, so
// document types travel as bare lowercase tags.
func FromAnalytics(a analytics.Analytics) Analytics {
	out := Analytics{
		TotalDocuments:     a.TotalDocuments,
		TotalDownloads:     a.TotalDownloads,
		UniqueCourses:      a.UniqueCourses,
		UniqueProfessors:   a.UniqueProfessors,
		UploadsOverTime:    fromBuckets(a.UploadsOverTime),
		DownloadTrends:     fromBuckets(a.DownloadTrends),
		CourseDistribution: make([]CourseCount, len(a.CourseDistribution)),
		DocumentTypes:      make([]TypeCount, len(a.DocumentTypes)),
		TopProfessors:      make([]ProfessorCount, len(a.TopProfessors)),
		RecentActivity:     make([]ActivityItem, len(a.RecentActivity)),
		TimeRange:          string(a.TimeRange),
	}
	for i, c := range a.CourseDistribution {
		out.CourseDistribution[i] = CourseCount{Course: c.Course, Count: c.Documents}
	}
	for i, ts := range a.DocumentTypes {
		out.DocumentTypes[i] = TypeCount{FileType: strings.ToLower(ts.Name), Count: ts.Value}
	}
	for i, p := range a.TopProfessors {
		out.TopProfessors[i] = ProfessorCount{Professor: p.Name, Course: p.Course, Count: p.Documents}
	}
	for i, act := range a.RecentActivity {
		out.RecentActivity[i] = ActivityItem{
			ActivityType:  act.Type,
			DocumentTitle: act.Document,
			TimeAgo:       act.Time,
			Timestamp:     act.Timestamp,
		}
	}
	return out
}

// ToAnalytics maps a wire payload back to the internal snapshot.
func (w Analytics) ToAnalytics() analytics.Analytics {
	out := analytics.Analytics{
		TotalDocuments:     w.TotalDocuments,
		TotalDownloads:     w.TotalDownloads,
		UniqueCourses:      w.UniqueCourses,
		UniqueProfessors:   w.UniqueProfessors,
		UploadsOverTime:    toBuckets(w.UploadsOverTime),
		DownloadTrends:     toBuckets(w.DownloadTrends),
		CourseDistribution: make([]analytics.CourseCount, len(w.CourseDistribution)),
		DocumentTypes:      make([]analytics.TypeSlice, len(w.DocumentTypes)),
		TopProfessors:      make([]analytics.ProfessorRank, len(w.TopProfessors)),
		RecentActivity:     make([]analytics.Activity, len(w.RecentActivity)),
		TimeRange:          analytics.ParseTimeRange(w.TimeRange),
	}
	for i, c := range w.CourseDistribution {
		out.CourseDistribution[i] = analytics.CourseCount{Course: c.Course, Documents: c.Count}
	}
	for i, tc := range w.DocumentTypes {
		out.DocumentTypes[i] = analytics.TypeSliceFor(tc.FileType, tc.Count)
	}
	for i, p := range w.TopProfessors {
		out.TopProfessors[i] = analytics.ProfessorRank{Name: p.Professor, Course: p.Course, Documents: p.Count}
	}
	for i, act := range w.RecentActivity {
		out.RecentActivity[i] = analytics.Activity{
			Type:      act.ActivityType,
			Document:  act.DocumentTitle,
			Time:      act.TimeAgo,
			Timestamp: act.Timestamp,
		}
	}
	return out
}
