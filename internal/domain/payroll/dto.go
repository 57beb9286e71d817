package payroll

import (
	"github.com/paycove/payroll-backend-go/internal/pkg/validator"
)

// ========== COMMAND DTOs ==========

type CreatePayrollRequest struct {
	EmployeeID  string  `json:"employee_id"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	Notes       *string `json:"notes,omitempty"`
}

func (r *CreatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	start, okStart := validator.IsValidDate(r.PeriodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, okEnd := validator.IsValidDate(r.PeriodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period_start"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CalculatePayrollRequest struct {
	Version     int64 `json:"version"`
	WorkingDays *int  `json:"working_days,omitempty"`
}

func (r *CalculatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Version < 0 {
		errs = append(errs, validator.ValidationError{Field: "version", Message: "must be non-negative"})
	}
	if r.WorkingDays != nil && *r.WorkingDays <= 0 {
		errs = append(errs, validator.ValidationError{Field: "working_days", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TransitionRequest struct {
	Version int64 `json:"version"`
}

type MarkPaidRequest struct {
	Version          int64  `json:"version"`
	PaymentReference string `json:"payment_reference"`
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PaymentReference == "" {
		errs = append(errs, validator.ValidationError{Field: "payment_reference", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSE DTOs ==========

type PayrollResponse struct {
	ID               string     `json:"id"`
	EmployeeID       string     `json:"employee_id"`
	PeriodStart      string     `json:"period_start"`
	PeriodEnd        string     `json:"period_end"`
	Status           string     `json:"status"`
	Version          int64      `json:"version"`
	Breakdown        *Breakdown `json:"breakdown,omitempty"`
	PaymentReference *string    `json:"payment_reference,omitempty"`
	ApprovedBy       *string    `json:"approved_by,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
}

type CalculateResponse struct {
	Payroll    PayrollResponse `json:"payroll"`
	Advisories []Advisory      `json:"advisories,omitempty"`
}

type ListPayrollResponse struct {
	Data       []PayrollResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

func ToResponse(p Payroll) PayrollResponse {
	return PayrollResponse{
		ID:               p.ID,
		EmployeeID:       p.EmployeeID,
		PeriodStart:      p.Period.Start.Format("2006-01-02"),
		PeriodEnd:        p.Period.End.Format("2006-01-02"),
		Status:           string(p.Status),
		Version:          p.Version,
		Breakdown:        p.Breakdown,
		PaymentReference: p.PaymentReference,
		ApprovedBy:       p.ApprovedBy,
		Notes:            p.Notes,
	}
}

func ToResponses(payrolls []Payroll) []PayrollResponse {
	result := make([]PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		result = append(result, ToResponse(p))
	}
	return result
}
