/*
validate.go - Candidate field validation

PURPOSE:
  Checks an extraction candidate for malformed fields before it enters
  reconciliation. Validation is deliberately field-local: a bad payment
  day never blocks a good amount, and other valid days in the same list
  are kept.

ERRORS vs SUGGESTIONS:
  - Errors block the offending field (bad frequency, day 40, amount <= 0)
  - Suggestions flag plausible-but-unusual values worth confirming with
    the user (an amount above two million in local currency)

PURITY:
  No side effects; the input candidate is never mutated.

SEE ALSO:
  - reconcile.go: Consumes validated candidates
  - types.go: Enumerated sets checked here
*/
package income

import (
	"fmt"
	"unicode/utf8"
)

// =============================================================================
// VALIDATION RESULT
// =============================================================================

type ValidationResult struct {
	Errors      []string
	Suggestions []string
}

func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

func (r *ValidationResult) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) addSuggestion(format string, args ...any) {
	r.Suggestions = append(r.Suggestions, fmt.Sprintf(format, args...))
}

// =============================================================================
// LIMITS
// =============================================================================

const (
	// maxDescriptionLen is a soft cap; exceeding it reports an error on
	// the description field only, never on the numeric fields.
	maxDescriptionLen = 140

	minPaymentDay = 1
	maxPaymentDay = 31
)

// amountConfirmThreshold: amounts above this are plausible but unusual
// enough to hand back as a suggestion instead of a hard error.
var amountConfirmThreshold = NewMoneyFromInt(2_000_000)

// =============================================================================
// VALIDATOR
// =============================================================================

// ValidateCandidate checks every present field of the candidate. Absent
// fields are not reported: partial candidates are normal mid-session.
func ValidateCandidate(c Candidate) ValidationResult {
	var res ValidationResult

	validateAmounts(c, &res)

	if c.Frequency != "" && !ValidFrequency(c.Frequency) {
		res.addError("unknown frequency %q", c.Frequency)
	}
	if c.Type != "" && !ValidIncomeType(c.Type) {
		res.addError("unknown income type %q", c.Type)
	}

	for _, day := range c.PaymentDays {
		if day < minPaymentDay || day > maxPaymentDay {
			res.addError("payment day %d out of range (1-31)", day)
		}
	}

	// Character cap, not bytes: accented Spanish text must not trip the
	// limit early.
	if utf8.RuneCountInString(c.Description) > maxDescriptionLen {
		res.addError("description exceeds %d characters", maxDescriptionLen)
	}

	return res
}

func validateAmounts(c Candidate, res *ValidationResult) {
	hasRange := c.MinAmount != nil || c.MaxAmount != nil

	if c.Amount == nil {
		if !hasRange {
			res.addError("amount is required when no range is given")
		}
	} else {
		checkAmount("amount", *c.Amount, res)
	}

	if c.MinAmount != nil {
		checkAmount("minimum amount", *c.MinAmount, res)
	}
	if c.MaxAmount != nil {
		checkAmount("maximum amount", *c.MaxAmount, res)
	}
	if c.MinAmount != nil && c.MaxAmount != nil && c.MaxAmount.LessThan(*c.MinAmount) {
		res.addError("maximum amount is below minimum amount")
	}
}

func checkAmount(field string, m Money, res *ValidationResult) {
	if !m.IsPositive() {
		res.addError("%s must be greater than zero", field)
		return
	}
	if m.GreaterThan(amountConfirmThreshold) {
		res.addSuggestion("%s %s is unusually high, please confirm", field, m)
	}
}

// ValidPaymentDays splits a day list into usable anchors and per-entry
// error messages. Invalid entries are dropped individually; valid
// siblings survive.
func ValidPaymentDays(days []int) (valid []int, errs []string) {
	for _, day := range days {
		if day < minPaymentDay || day > maxPaymentDay {
			errs = append(errs, fmt.Sprintf("payment day %d out of range (1-31)", day))
			continue
		}
		valid = append(valid, day)
	}
	return valid, errs
}
