package marketplace

import (
	"regexp"
	"strings"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/shopspring/decimal"
)

const amountScale = 2

var (
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	sha256Pattern   = regexp.MustCompile(`^[0-9a-f]{64}$`)
)

// checkAmount validates a monetary amount: positive with at most two decimal places.
func checkAmount(v *ValidationError, field string, amount decimal.Decimal) {
	switch {
	case !amount.IsPositive():
		v.Add(field, "must be greater than zero")
	case amount.Exponent() < -amountScale && !amount.Equal(amount.Round(amountScale)):
		v.Add(field, "must have at most two decimal places")
	}
}

func checkRequired(v *ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
	}
}

func normalizeCurrency(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

func checkCurrency(v *ValidationError, field, currency string) {
	if !currencyPattern.MatchString(currency) {
		v.Add(field, "must be a three-letter currency code")
	}
}

// dateOf truncates t to its UTC calendar date.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateCreateInvoice records every problem with in that does not need stored state.
// Transport layers call it after decoding so that parse failures and domain checks are
// reported together.
func ValidateCreateInvoice(v *ValidationError, in CreateInvoiceInput, issueDate time.Time) {
	checkRequired(v, "provider.id", in.Provider.ID)
	if in.Patient != nil {
		checkRequired(v, "patient.id", in.Patient.ID)
	}
	checkRequired(v, "service_description", in.ServiceDescription)
	checkAmount(v, "amount", in.Amount)
	checkCurrency(v, "currency", normalizeCurrency(in.Currency))
	switch {
	case in.DueDate.IsZero():
		v.Add("due_date", "is required")
	case !dateOf(in.DueDate).After(dateOf(issueDate)):
		v.Add("due_date", "must be after the issue date")
	}
	if in.Attachment != nil && !sha256Pattern.MatchString(strings.ToLower(in.Attachment.SHA256)) {
		v.Add("attachment.sha256", "must be a hex encoded SHA-256 digest")
	}
}

// ValidateFundingTerms records the problems with p that do not depend on the invoice.
func ValidateFundingTerms(v *ValidationError, p models.FundingParams) {
	checkAmount(v, "min_funding_amount", p.MinFundingAmount)
	if p.InterestRatePct != nil && p.InterestRatePct.IsNegative() {
		v.Add("interest_rate_pct", "must not be negative")
	}
	if p.FundingPeriodDays != nil && *p.FundingPeriodDays <= 0 {
		v.Add("funding_period_days", "must be greater than zero")
	}
}

// ValidateFundRequest records the problems with a funding request that do not depend
// on the invoice.
func ValidateFundRequest(v *ValidationError, funderID string, amount decimal.Decimal) {
	checkRequired(v, "funder_id", funderID)
	checkAmount(v, "amount", amount)
}
