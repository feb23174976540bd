package dto

// PaginationInfo describes the current page of a listing
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
}

// PaginatedResponse represents a paginated list with metadata
type PaginatedResponse struct {
	Items      interface{}    `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// AdminDashboardPage is the admin landing page payload
type AdminDashboardPage struct {
	Page          string           `json:"page" example:"admin-dashboard"`
	Viewer        interface{}      `json:"viewer"`
	TotalUsers    int64            `json:"totalUsers"`
	TotalCourses  int64            `json:"totalCourses"`
	RecentCourses []CourseResponse `json:"recentCourses"`
}

// StudentDashboardPage is the student landing page payload
type StudentDashboardPage struct {
	Page            string           `json:"page" example:"student-dashboard"`
	Profile         UserResponse     `json:"profile"`
	EnrolledCourses []CourseResponse `json:"enrolledCourses"`
}

// ManageUsersPage lists persisted accounts
type ManageUsersPage struct {
	Page       string         `json:"page" example:"manage-users"`
	Users      []UserResponse `json:"users"`
	Pagination PaginationInfo `json:"pagination"`
}

// FormField describes one input rule of a form page
type FormField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Rule     string `json:"rule,omitempty"`
}

// AddCoursePage describes the course creation form
type AddCoursePage struct {
	Page     string      `json:"page" example:"add-course"`
	Endpoint string      `json:"endpoint" example:"/api/v1/courses"`
	Fields   []FormField `json:"fields"`
}

// LoginPage lists the sign-in options
type LoginPage struct {
	Page        string         `json:"page" example:"login"`
	CallbackURL string         `json:"callbackUrl,omitempty"`
	Providers   []ProviderInfo `json:"providers"`
}
