package employee

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	hireDateLayout   = "2006-01-02"
)

// CreateEmployeeRequest carries the text parts of the multipart form. The
// photo travels separately as a PhotoUpload.
type CreateEmployeeRequest struct {
	FirstName    string `form:"first_name" binding:"required,max=50"`
	LastName     string `form:"last_name" binding:"required,max=50"`
	Email        string `form:"email" binding:"required,max=100"`
	DepartmentID string `form:"department_id" binding:"required,uuid"`
	PositionID   string `form:"position_id" binding:"required,uuid"`
	HireDate     string `form:"hire_date" binding:"omitempty,datetime=2006-01-02"`
}

type PhotoUpload struct {
	Content     []byte
	ContentType string
}

// UpdateEmployeeRequest is a partial update. Nil fields are left alone.
type UpdateEmployeeRequest struct {
	FirstName    *string `json:"first_name" binding:"omitempty,max=50"`
	LastName     *string `json:"last_name" binding:"omitempty,max=50"`
	Email        *string `json:"email" binding:"omitempty,max=100"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	PositionID   *string `json:"position_id" binding:"omitempty,uuid"`
	HireDate     *string `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
	Status       *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type ListEmployeesQuery struct {
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	PositionID   string `form:"position_id" binding:"omitempty,uuid"`
	Q            string `form:"q"`
	Limit        int    `form:"limit,default=20" binding:"min=1,max=100"`
	Offset       int    `form:"offset,default=0" binding:"min=0"`
}

type DepartmentSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type PositionSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type EmployeeResponse struct {
	ID         string             `json:"id"`
	FirstName  string             `json:"first_name"`
	LastName   string             `json:"last_name"`
	Email      string             `json:"email"`
	Status     string             `json:"status"`
	PhotoURL   string             `json:"photo_url"`
	HireDate   *string            `json:"hire_date"`
	Department *DepartmentSummary `json:"department"`
	Position   *PositionSummary   `json:"position"`
	CreatedAt  string             `json:"created_at"`
	UpdatedAt  string             `json:"updated_at"`
}
