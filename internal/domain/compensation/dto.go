package compensation

import (
	"github.com/shopspring/decimal"

	"github.com/paycove/payroll-backend-go/internal/domain/timesheet"
	"github.com/paycove/payroll-backend-go/internal/pkg/validator"
)

type CreateRateRequest struct {
	EmployeeID  string          `json:"employee_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	ValidFrom   string          `json:"valid_from"`
	ValidTo     *string         `json:"valid_to,omitempty"`
	Description *string         `json:"description,omitempty"`
}

func (r *CreateRateRequest) Validate() error {
	errs := validateWindowFields(r.EmployeeID, r.Currency, r.Amount, r.ValidFrom, r.ValidTo)
	if !RateType(r.Type).Valid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be one of salary, hourly, commission"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateBonusRequest struct {
	EmployeeID  string          `json:"employee_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	PaymentDate string          `json:"payment_date"`
	Description *string         `json:"description,omitempty"`
}

func (r *CreateBonusRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.EmployeeID == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must not be negative"})
	}
	if validator.IsEmpty(r.Currency) {
		errs = append(errs, validator.ValidationError{Field: "currency", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.PaymentDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateDeductionRequest struct {
	EmployeeID  string          `json:"employee_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	ValidFrom   string          `json:"valid_from"`
	ValidTo     *string         `json:"valid_to,omitempty"`
	Description *string         `json:"description,omitempty"`
}

func (r *CreateDeductionRequest) Validate() error {
	errs := validateWindowFields(r.EmployeeID, r.Currency, r.Amount, r.ValidFrom, r.ValidTo)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateOvertimeRuleRequest struct {
	EmployeeID     string          `json:"employee_id"`
	Category       string          `json:"category"`
	Multiplier     decimal.Decimal `json:"multiplier"`
	ThresholdHours decimal.Decimal `json:"threshold_hours"`
	ValidFrom      string          `json:"valid_from"`
	ValidTo        *string         `json:"valid_to,omitempty"`
}

func (r *CreateOvertimeRuleRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.EmployeeID == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !timesheet.OvertimeCategory(r.Category).Valid() {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "must be one of regular, weekend, holiday, night_shift"})
	}
	if r.Multiplier.LessThan(decimal.NewFromInt(1)) {
		errs = append(errs, validator.ValidationError{Field: "multiplier", Message: "must be at least 1"})
	}
	if r.ThresholdHours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "threshold_hours", Message: "must not be negative"})
	}
	errs = append(errs, validateWindow(r.ValidFrom, r.ValidTo)...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateSickLeaveRuleRequest struct {
	EmployeeID string          `json:"employee_id"`
	Percentage decimal.Decimal `json:"percentage"`
	MaxDays    *int            `json:"max_days,omitempty"`
	ValidFrom  string          `json:"valid_from"`
	ValidTo    *string         `json:"valid_to,omitempty"`
}

func (r *CreateSickLeaveRuleRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.EmployeeID == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !r.Percentage.IsPositive() || r.Percentage.GreaterThan(decimal.NewFromInt(100)) {
		errs = append(errs, validator.ValidationError{Field: "percentage", Message: "must be between 0 and 100"})
	}
	if r.MaxDays != nil && *r.MaxDays <= 0 {
		errs = append(errs, validator.ValidationError{Field: "max_days", Message: "must be positive"})
	}
	errs = append(errs, validateWindow(r.ValidFrom, r.ValidTo)...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateWindowFields(employeeID, currency string, amount decimal.Decimal, validFrom string, validTo *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if employeeID == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must not be negative"})
	}
	if validator.IsEmpty(currency) {
		errs = append(errs, validator.ValidationError{Field: "currency", Message: "is required"})
	}
	return append(errs, validateWindow(validFrom, validTo)...)
}

func validateWindow(validFrom string, validTo *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	from, okFrom := validator.IsValidDate(validFrom)
	if !okFrom {
		errs = append(errs, validator.ValidationError{Field: "valid_from", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if validTo != nil {
		to, okTo := validator.IsValidDate(*validTo)
		if !okTo {
			errs = append(errs, validator.ValidationError{Field: "valid_to", Message: "must be a valid date (YYYY-MM-DD)"})
		} else if okFrom && to.Before(from) {
			errs = append(errs, validator.ValidationError{Field: "valid_to", Message: "must not be before valid_from"})
		}
	}
	return errs
}

type RateResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	ValidFrom   string          `json:"valid_from"`
	ValidTo     *string         `json:"valid_to,omitempty"`
	Description *string         `json:"description,omitempty"`
}

func ToRateResponse(r Rate) RateResponse {
	var validTo *string
	if r.Window.ValidTo != nil {
		s := r.Window.ValidTo.Format("2006-01-02")
		validTo = &s
	}
	return RateResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		Type:        string(r.Type),
		Amount:      r.Amount.Amount,
		Currency:    r.Amount.Currency,
		ValidFrom:   r.Window.ValidFrom.Format("2006-01-02"),
		ValidTo:     validTo,
		Description: r.Description,
	}
}

func ToRateResponses(rates []Rate) []RateResponse {
	result := make([]RateResponse, 0, len(rates))
	for _, r := range rates {
		result = append(result, ToRateResponse(r))
	}
	return result
}
