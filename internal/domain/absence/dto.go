package absence

import (
	"github.com/shopspring/decimal"

	"github.com/paycove/payroll-backend-go/internal/pkg/validator"
)

type CreateAbsenceRequest struct {
	EmployeeID string  `json:"employee_id"`
	Type       string  `json:"type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Reason     *string `json:"reason,omitempty"`
}

func (r *CreateAbsenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !AbsenceType(r.Type).Valid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "is not a valid absence type"})
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

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateBalanceRequest struct {
	EmployeeID string          `json:"employee_id"`
	Type       string          `json:"type"`
	Year       int             `json:"year"`
	TotalDays  decimal.Decimal `json:"total_days"`
}

func (r *CreateBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !AbsenceType(r.Type).Valid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "is not a valid absence type"})
	}
	if r.Year < 2000 || r.Year > 2200 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "is out of range"})
	}
	if r.TotalDays.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "total_days", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AbsenceResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Type       string  `json:"type"`
	Status     string  `json:"status"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Reason     *string `json:"reason,omitempty"`
}

type BalanceResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	Type          string          `json:"type"`
	Year          int             `json:"year"`
	TotalDays     decimal.Decimal `json:"total_days"`
	UsedDays      decimal.Decimal `json:"used_days"`
	RemainingDays decimal.Decimal `json:"remaining_days"`
}

func ToResponse(a AbsenceRecord) AbsenceResponse {
	return AbsenceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Type:       string(a.Type),
		Status:     string(a.Status),
		StartDate:  a.StartDate.Format("2006-01-02"),
		EndDate:    a.EndDate.Format("2006-01-02"),
		Reason:     a.Reason,
	}
}

func ToResponses(records []AbsenceRecord) []AbsenceResponse {
	result := make([]AbsenceResponse, 0, len(records))
	for _, a := range records {
		result = append(result, ToResponse(a))
	}
	return result
}

func ToBalanceResponse(b AbsenceBalance) BalanceResponse {
	return BalanceResponse{
		ID:            b.ID,
		EmployeeID:    b.EmployeeID,
		Type:          string(b.Type),
		Year:          b.Year,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays(),
	}
}

func ToBalanceResponses(balances []AbsenceBalance) []BalanceResponse {
	result := make([]BalanceResponse, 0, len(balances))
	for _, b := range balances {
		result = append(result, ToBalanceResponse(b))
	}
	return result
}
