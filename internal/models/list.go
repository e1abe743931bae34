package models

// EmployeeFilter narrows a listing. Nil pointers mean "no constraint".
type EmployeeFilter struct {
	Role    *Role
	Class   *string
	Flagged *bool
	// Search is matched case-insensitively as a literal substring against
	// name, email, class and every subject.
	Search string
}

// SortField names a sortable column using its API spelling
type SortField string

const (
	SortByName       SortField = "name"
	SortByEmail      SortField = "email"
	SortByAge        SortField = "age"
	SortByClass      SortField = "class"
	SortByAttendance SortField = "attendance"
	SortByRole       SortField = "role"
	SortByFlagged    SortField = "flagged"
	SortByCreatedAt  SortField = "createdAt"
	SortByUpdatedAt  SortField = "updatedAt"
)

var sortColumns = map[SortField]string{
	SortByName:       "name",
	SortByEmail:      "email",
	SortByAge:        "age",
	SortByClass:      "class",
	SortByAttendance: "attendance",
	SortByRole:       "role",
	SortByFlagged:    "flagged",
	SortByCreatedAt:  "created_at",
	SortByUpdatedAt:  "updated_at",
}

// Column returns the relational column name for the sort field
func (f SortField) Column() (string, bool) {
	col, ok := sortColumns[f]
	return col, ok
}

// Sort orders a listing
type Sort struct {
	Field SortField
	Desc  bool
}

// DefaultSort is newest first
var DefaultSort = Sort{Field: SortByCreatedAt, Desc: true}

// ListQuery is the store-level listing request. Skip and Limit are already normalized.
type ListQuery struct {
	Filter EmployeeFilter
	Sort   Sort
	Skip   int
	Limit  int
}

// EmployeePage is one page of a listing
type EmployeePage struct {
	Items []Employee `json:"employees"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Pages int        `json:"pages"`
}
