package orders

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/orderdesk/orderdesk/internal/assert"
	"github.com/orderdesk/orderdesk/internal/client"
)

// MinAmount is the smallest order amount accepted
const MinAmount = 1.0

// dateLayout is the order date format, matching the datetime rule on Form.Date
const dateLayout = "2006-01-02"

// Form is the order entry form as submitted by the dashboard
type Form struct {
	Customer string `form:"customer" json:"customer" validate:"required,min=2"`
	Category string `form:"category" json:"category" validate:"required"`
	Date     string `form:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Amount   string `form:"amount" json:"amount" validate:"required,orderamount"`
	Source   string `form:"source" json:"source" validate:"required,min=2"`
	Geo      string `form:"geo" json:"geo" validate:"required,min=2"`
}

// FieldErrors maps a form field name to the message shown next to it
type FieldErrors map[string]string

// ValidationError is returned when a form fails validation
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "invalid order: " + strings.Join(parts, "; ")
}

// messages holds the user-facing text per field and failed rule
var messages = map[string]map[string]string{
	"customer": {
		"required": "Customer name is required",
		"min":      "Name must be at least 2 characters",
	},
	"category": {
		"required": "Category is required",
	},
	"date": {
		"required": "Order date is required",
		"datetime": "Order date must be a valid date",
	},
	"source": {
		"required": "Source is required",
		"min":      "Source must be at least 2 characters",
	},
	"geo": {
		"required": "Geographic location is required",
		"min":      "Location must be at least 2 characters",
	},
	"amount": {
		"required": "Amount is required",
	},
}

// NewValidator returns a validator with the order rules registered
func NewValidator() *validator.Validate {
	validate := validator.New()

	// Use form field names in errors
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]; name != "" && name != "-" {
			return name
		}
		return field.Name
	})

	validate.RegisterValidation("orderamount", func(fl validator.FieldLevel) bool {
		_, problem := parseAmount(fl.Field().String())
		return problem == ""
	})

	return validate
}

const (
	msgAmountNotNumber = "Amount must be a number"
	msgAmountTooSmall  = "Amount must be more than 1"
)

// parseAmount parses an amount string and checks it against MinAmount.
// problem is empty when the amount is acceptable.
func parseAmount(raw string) (amount float64, problem string) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, msgAmountNotNumber
	}
	if amount < MinAmount {
		return 0, msgAmountTooSmall
	}
	return amount, ""
}

// Normalize trims surrounding whitespace from every field
func (f Form) Normalize() Form {
	return Form{
		Customer: strings.TrimSpace(f.Customer),
		Category: strings.TrimSpace(f.Category),
		Date:     strings.TrimSpace(f.Date),
		Amount:   strings.TrimSpace(f.Amount),
		Source:   strings.TrimSpace(f.Source),
		Geo:      strings.TrimSpace(f.Geo),
	}
}

// Validate checks the form and converts it into an API request
func (f Form) Validate(validate *validator.Validate) (client.CreateOrderRequest, error) {
	f = f.Normalize()

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return client.CreateOrderRequest{}, fmt.Errorf("failed to validate order: %w", err)
		}

		fields := make(FieldErrors, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = messageFor(fe, f)
		}
		return client.CreateOrderRequest{}, &ValidationError{Fields: fields}
	}

	assert.Length(f.Date, len(dateLayout))

	amount, _ := parseAmount(f.Amount)
	return client.CreateOrderRequest{
		Customer: f.Customer,
		Category: f.Category,
		Date:     f.Date,
		Source:   f.Source,
		Geo:      f.Geo,
		Amount:   amount,
	}, nil
}

func messageFor(fe validator.FieldError, f Form) string {
	if fe.Field() == "amount" && fe.Tag() == "orderamount" {
		_, problem := parseAmount(f.Amount)
		return problem
	}
	if msg, ok := messages[fe.Field()][fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
