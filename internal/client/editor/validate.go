package editor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/gatepass/internal/client/models"
)

// phonePattern accepts a 10 digit number or the same with the 91 country code.
var phonePattern = regexp.MustCompile(`^(\d{10}|91\d{10})$`)

type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// ValidationError lists every rule the record breaks.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "invalid record: " + strings.Join(parts, "; ")
}

type violations []Violation

func (vs *violations) add(field, msg string) {
	*vs = append(*vs, Violation{Field: field, Message: msg})
}

func (vs violations) err() error {
	if len(vs) == 0 {
		return nil
	}
	return &ValidationError{Violations: vs}
}

func itemField(i int, f ItemField) string {
	return fmt.Sprintf("items[%d].%s", i, f)
}

// Validate checks the whole record.
func (e *Editor) Validate() error {
	var vs violations
	r := e.record

	if e.mode == ModeCreate && r.PassNo == "" {
		vs.add(string(FieldPassNo), "pass number is required")
	}
	if r.Customer.Name == "" {
		vs.add(string(FieldCustomerName), "customer name is required")
	}
	switch {
	case r.Customer.Phone == "":
		vs.add(string(FieldPhone), "phone number is required")
	case !phonePattern.MatchString(r.Customer.Phone):
		vs.add(string(FieldPhone), "phone must be 10 digits, or 12 digits starting with 91")
	}

	for i, it := range r.Items {
		if it.ItemName == "" {
			vs.add(itemField(i, ItemName), "item name is required")
		}
		if it.PartNumber == "" {
			vs.add(itemField(i, ItemPartNumber), "part number is required")
		}
		if it.SerialNumber == "" {
			vs.add(itemField(i, ItemSerialNumber), "serial number is required")
		}
	}
	vs = append(vs, itemOutViolations(r.Items)...)

	return vs.err()
}

// ValidateItemOut checks only the return rules.
func (e *Editor) ValidateItemOut() error {
	return violations(itemOutViolations(e.record.Items)).err()
}

func itemOutViolations(items []models.LineItem) violations {
	var vs violations
	for i, it := range items {
		if !it.ItemOut {
			continue
		}
		if it.DateOut.IsZero() {
			vs.add(itemField(i, ItemDateOut), "date out is required for returned items")
		}
		if it.ItemRectificationDetails == "" {
			vs.add(itemField(i, ItemRectification), "rectification details are required for returned items")
		}
	}
	return vs
}
