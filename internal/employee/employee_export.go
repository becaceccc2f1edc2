package employee

import (
	"bytes"
	"context"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	exportSheetName = "Employees"
	exportRowCap    = 10000
)

var exportHeaders = []interface{}{
	"ID", "First Name", "Last Name", "Email", "Department", "Position", "Status", "Hire Date", "Created At",
}

// Export renders the filtered employees as an xlsx workbook. Paging is
// ignored; at most exportRowCap rows are written.
func (s *service) Export(ctx context.Context, query ListEmployeesQuery) (*bytes.Buffer, error) {
	query.Limit = 0
	query.Offset = 0
	filter, err := buildFilter(query)
	if err != nil {
		return nil, err
	}
	filter.Limit = exportRowCap

	empls, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if total > exportRowCap {
		s.logger.Warn("employee export truncated",
			zap.Int64("total", total),
			zap.Int("cap", exportRowCap),
		)
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(exportSheetName, "A1", &exportHeaders); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(exportSheetName, 1, 1, headerStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheetName, "A", "A", 38); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheetName, "B", "I", 20); err != nil {
		return nil, err
	}

	for i, e := range mapToListResponse(empls) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := exportRow(e)
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}

	s.logger.Info("employee export generated", zap.Int("rows", len(empls)))
	return buf, nil
}

func exportRow(e EmployeeResponse) []interface{} {
	var deptName, posTitle, hireDate string
	if e.Department != nil {
		deptName = e.Department.Name
	}
	if e.Position != nil {
		posTitle = e.Position.Title
	}
	if e.HireDate != nil {
		hireDate = *e.HireDate
	}
	return []interface{}{
		e.ID, e.FirstName, e.LastName, e.Email, deptName, posTitle, e.Status, hireDate, e.CreatedAt,
	}
}
