package checkout

import (
	"strings"

	"rozo-books/internal/domain"
)

// Field names reported back to the form when a required value is blank.
const (
	FieldEmail   = "email"
	FieldAddress = "address"
	FieldPhone   = "phone"
)

// Verdict is the result of validating the contact form against the cart's
// current format mix.
type Verdict struct {
	Valid         bool     `json:"valid"`
	MissingFields []string `json:"missingFields,omitempty"`
}

// Validate checks the contact form against the cart. Email is always
// required; a shipping address and phone number are required exactly when the
// cart holds at least one physical book. The verdict is computed fresh on
// every call because the requirement set changes with the cart.
func Validate(hasPhysical bool, contact domain.ContactInfo) Verdict {
	var missing []string
	if strings.TrimSpace(contact.Email) == "" {
		missing = append(missing, FieldEmail)
	}
	if hasPhysical {
		if strings.TrimSpace(contact.Address) == "" {
			missing = append(missing, FieldAddress)
		}
		if strings.TrimSpace(contact.Phone) == "" {
			missing = append(missing, FieldPhone)
		}
	}
	return Verdict{Valid: len(missing) == 0, MissingFields: missing}
}
