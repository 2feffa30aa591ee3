package models

// DashboardStats summarises one account's learning and submissions.
type DashboardStats struct {
	TotalEnrollments int64   `json:"totalEnrollments"`
	CompletedCourses int64   `json:"completedCourses"`
	AverageProgress  float64 `json:"averageProgress"`
	SubmittedCourses int64   `json:"submittedCourses"`
	SubmittedNotes   int64   `json:"submittedNotes"`
}

type PlatformStats struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalCourses     int64 `json:"totalCourses"`
	TotalNotes       int64 `json:"totalNotes"`
	PendingCourses   int64 `json:"pendingCourses"`
	PendingNotes     int64 `json:"pendingNotes"`
	PublishedCourses int64 `json:"publishedCourses"`
	PublishedNotes   int64 `json:"publishedNotes"`
}

type PendingCounts struct {
	Courses int64 `json:"courses"`
	Notes   int64 `json:"notes"`
	Total   int64 `json:"total"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
