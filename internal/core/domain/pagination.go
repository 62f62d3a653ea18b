package domain

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// SortOrder is the direction of a listing sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sortable article fields. Adapters translate them to column / field names.
const (
	SortCreatedAt   = "createdAt"
	SortUpdatedAt   = "updatedAt"
	SortPublishedAt = "publishedAt"
	SortTitle       = "title"
	SortViews       = "views"
	SortLikes       = "likes"
)

// SortFields lists every accepted sortBy value.
var SortFields = []string{SortCreatedAt, SortUpdatedAt, SortPublishedAt, SortTitle, SortViews, SortLikes}

// Pagination is the metadata returned alongside every page of results.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

// NewPagination derives page metadata; totalPages is ceil(totalItems/pageSize).
func NewPagination(currentPage, pageSize int, totalItems int64) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	}
	return Pagination{
		CurrentPage: currentPage,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasNext:     currentPage < totalPages,
		HasPrevious: currentPage > 1,
	}
}

// ArticlePage is one page of articles.
type ArticlePage struct {
	Data       []Article  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// SiteStats aggregates content and engagement totals for the dashboard.
type SiteStats struct {
	Articles   int64 `json:"articlesCount"`
	Projects   int64 `json:"projectsCount"`
	Visitors   int64 `json:"visitorsCount"`
	Comments   int64 `json:"commentsCount"`
	TotalViews int64 `json:"totalViews"`
	TotalLikes int64 `json:"totalLikes"`
}
