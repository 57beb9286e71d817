package timesheet

import (
	"github.com/shopspring/decimal"

	"github.com/paycove/payroll-backend-go/internal/pkg/validator"
)

type CreateTimesheetRequest struct {
	EmployeeID       string          `json:"employee_id"`
	StartDate        string          `json:"start_date"`
	EndDate          string          `json:"end_date"`
	Hours            decimal.Decimal `json:"hours"`
	OvertimeHours    decimal.Decimal `json:"overtime_hours"`
	OvertimeCategory *string         `json:"overtime_category,omitempty"`
}

func (r *CreateTimesheetRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}
	if r.Hours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hours", Message: "must not be negative"})
	}
	if r.OvertimeHours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "overtime_hours", Message: "must not be negative"})
	}
	if r.OvertimeHours.IsPositive() && r.OvertimeCategory == nil {
		errs = append(errs, validator.ValidationError{Field: "overtime_category", Message: "is required when overtime_hours is set"})
	}
	if !r.OvertimeHours.IsPositive() && r.OvertimeCategory != nil {
		errs = append(errs, validator.ValidationError{Field: "overtime_category", Message: "must be omitted without overtime_hours"})
	}
	if r.OvertimeCategory != nil && !OvertimeCategory(*r.OvertimeCategory).Valid() {
		errs = append(errs, validator.ValidationError{Field: "overtime_category", Message: "must be one of regular, weekend, holiday, night_shift"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RejectTimesheetRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectTimesheetRequest) Validate() error {
	if r.Reason == "" {
		return validator.ValidationErrors{{Field: "reason", Message: "is required"}}
	}
	return nil
}

type TimesheetResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	StartDate        string          `json:"start_date"`
	EndDate          string          `json:"end_date"`
	Hours            decimal.Decimal `json:"hours"`
	OvertimeHours    decimal.Decimal `json:"overtime_hours"`
	OvertimeCategory *string         `json:"overtime_category,omitempty"`
	Status           string          `json:"status"`
	RejectionReason  *string         `json:"rejection_reason,omitempty"`
	ApprovedBy       *string         `json:"approved_by,omitempty"`
}

func ToResponse(t Timesheet) TimesheetResponse {
	var category *string
	if t.OvertimeCategory != nil {
		c := string(*t.OvertimeCategory)
		category = &c
	}
	return TimesheetResponse{
		ID:               t.ID,
		EmployeeID:       t.EmployeeID,
		StartDate:        t.StartDate.Format("2006-01-02"),
		EndDate:          t.EndDate.Format("2006-01-02"),
		Hours:            t.Hours,
		OvertimeHours:    t.OvertimeHours,
		OvertimeCategory: category,
		Status:           string(t.Status),
		RejectionReason:  t.RejectionReason,
		ApprovedBy:       t.ApprovedBy,
	}
}

func ToResponses(sheets []Timesheet) []TimesheetResponse {
	result := make([]TimesheetResponse, 0, len(sheets))
	for _, t := range sheets {
		result = append(result, ToResponse(t))
	}
	return result
}
