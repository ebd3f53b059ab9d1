package mapping

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/api"
	"github.com/chris/invoice-funding-marketplace/pkg/marketplace"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// now dates incoming invoices for request validation. The registry re-checks with its own clock.
var now = time.Now

// parseDecimal parses a decimal field, recording a field error on failure.
func parseDecimal(v *marketplace.ValidationError, field, s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		v.Add(field, "must be a decimal number")
		return decimal.Zero
	}
	return d
}

func parseOptionalDecimal(v *marketplace.ValidationError, field string, s *string) *decimal.Decimal {
	if s == nil {
		return nil
	}
	d := parseDecimal(v, field, *s)
	return &d
}

func toDomainParty(p api.Party) models.Party {
	party := models.Party{ID: p.Id}
	if p.Name != nil {
		party.Name = *p.Name
	}
	return party
}

func toApiParty(p models.Party) api.Party {
	party := api.Party{Id: p.ID}
	if p.Name != "" {
		name := p.Name
		party.Name = &name
	}
	return party
}

// ToDomainCreateInvoice converts an API NewInvoice into the registry input. The returned
// ValidationError lists parse failures together with every other invalid field.
func ToDomainCreateInvoice(in *api.NewInvoice) (marketplace.CreateInvoiceInput, error) {
	v := &marketplace.ValidationError{}
	out := marketplace.CreateInvoiceInput{
		Provider:           toDomainParty(in.Provider),
		ServiceDescription: in.ServiceDescription,
		Amount:             parseDecimal(v, "amount", in.Amount),
		Currency:           in.Currency,
		DueDate:            in.DueDate.Time,
	}
	if in.Patient != nil {
		p := toDomainParty(*in.Patient)
		out.Patient = &p
	}
	if in.Attachment != nil {
		out.Attachment = &models.Attachment{FileName: in.Attachment.FileName, SHA256: in.Attachment.Sha256}
		if in.Attachment.ContentType != nil {
			out.Attachment.ContentType = *in.Attachment.ContentType
		}
	}
	marketplace.ValidateCreateInvoice(v, out, now().UTC())
	return out, v.Err()
}

// ToDomainFundingParams converts API funding terms into the domain model.
func ToDomainFundingParams(in *api.FundingParams) (models.FundingParams, error) {
	v := &marketplace.ValidationError{}
	out := models.FundingParams{
		MinFundingAmount:  parseDecimal(v, "min_funding_amount", in.MinFundingAmount),
		InterestRatePct:   parseOptionalDecimal(v, "interest_rate_pct", in.InterestRatePct),
		FundingPeriodDays: in.FundingPeriodDays,
	}
	marketplace.ValidateFundingTerms(v, out)
	return out, v.Err()
}

// ToDomainFundAmount parses the amount of a FundRequest and checks the whole request.
func ToDomainFundAmount(in *api.FundRequest) (decimal.Decimal, error) {
	v := &marketplace.ValidationError{}
	amount := parseDecimal(v, "amount", in.Amount)
	marketplace.ValidateFundRequest(v, in.FunderId, amount)
	return amount, v.Err()
}

// ToDomainInvoiceFilter converts marketplace listing query parameters into a filter.
func ToDomainInvoiceFilter(params *api.ListTokenizedInvoicesParams) (models.TokenizedInvoiceFilter, error) {
	v := &marketplace.ValidationError{}
	filter := models.TokenizedInvoiceFilter{
		MinAmount: parseOptionalDecimal(v, "min_amount", params.MinAmount),
		MaxAmount: parseOptionalDecimal(v, "max_amount", params.MaxAmount),
	}
	if params.Status != nil {
		filter.Status = models.InvoiceStatus(*params.Status)
	}
	if params.Currency != nil {
		filter.Currency = *params.Currency
	}
	if params.Limit != nil {
		filter.Limit = int32(*params.Limit)
	}
	return filter, v.Err()
}

func ToApiChainAnchor(a *models.ChainAnchor) *api.ChainAnchor {
	if a == nil {
		return nil
	}
	return &api.ChainAnchor{
		TokenId:     a.TokenID,
		TxHash:      a.TxHash,
		BlockNumber: int64(a.BlockNumber),
		Timestamp:   a.Timestamp,
		ContentHash: a.ContentHash,
	}
}

func toApiFundingParams(p models.FundingParams) api.FundingParams {
	out := api.FundingParams{
		MinFundingAmount:  p.MinFundingAmount.StringFixed(2),
		FundingPeriodDays: p.FundingPeriodDays,
	}
	if p.InterestRatePct != nil {
		rate := p.InterestRatePct.String()
		out.InterestRatePct = &rate
	}
	return out
}

// ToApiInvoice converts a domain Invoice model to an API Invoice model.
func ToApiInvoice(inv *models.Invoice) *api.Invoice {
	out := &api.Invoice{
		Id:                 inv.ID,
		Provider:           toApiParty(inv.Provider),
		ServiceDescription: inv.ServiceDescription,
		Amount:             inv.Amount.StringFixed(2),
		Currency:           inv.Currency,
		IssueDate:          openapi_types.Date{Time: inv.IssueDate},
		DueDate:            openapi_types.Date{Time: inv.DueDate},
		Status:             api.InvoiceStatus(inv.Status.Public()),
		CreatedAt:          inv.CreatedAt,
		UpdatedAt:          inv.UpdatedAt,
	}
	if inv.Patient != nil {
		p := toApiParty(*inv.Patient)
		out.Patient = &p
	}
	if inv.Attachment != nil {
		out.Attachment = &api.Attachment{FileName: inv.Attachment.FileName, Sha256: inv.Attachment.SHA256}
		if inv.Attachment.ContentType != "" {
			ct := inv.Attachment.ContentType
			out.Attachment.ContentType = &ct
		}
	}
	if t := inv.Tokenization; t != nil {
		out.Tokenization = &api.Tokenization{
			TokenId:      t.TokenID,
			ContentHash:  t.ContentHash,
			TokenizedAt:  t.TokenizedAt,
			Anchor:       *ToApiChainAnchor(&t.Anchor),
			FundingTerms: toApiFundingParams(t.Params),
		}
	}
	return out
}

// ToApiFundingOffer converts a domain FundingOffer model to an API FundingOffer model.
func ToApiFundingOffer(o *models.FundingOffer) *api.FundingOffer {
	out := &api.FundingOffer{
		Id:        o.ID,
		InvoiceId: o.InvoiceID,
		FunderId:  o.FunderID,
		Amount:    o.Amount.StringFixed(2),
		Currency:  o.Currency,
		OfferedAt: o.OfferedAt,
		Anchor:    ToApiChainAnchor(o.Anchor),
	}
	if o.TxHash != "" {
		tx := o.TxHash
		out.TxHash = &tx
	}
	return out
}

// ToApiEscrow converts a domain EscrowRecord model to an API EscrowRecord model.
func ToApiEscrow(e *models.EscrowRecord) *api.EscrowRecord {
	out := &api.EscrowRecord{
		Id:               e.ID,
		InvoiceId:        e.InvoiceID,
		FunderId:         e.FunderID,
		HeldAmount:       e.HeldAmount.StringFixed(2),
		Currency:         e.Currency,
		ReleaseCondition: string(e.ReleaseCondition),
		CreatedAt:        e.CreatedAt,
		ReleasedAt:       e.ReleasedAt,
	}
	if e.PayoutAmount != nil {
		payout := e.PayoutAmount.StringFixed(2)
		out.PayoutAmount = &payout
	}
	return out
}

// ToApiLedgerEntry converts a domain LedgerEntry model to an API LedgerEntry model.
func ToApiLedgerEntry(entry *models.LedgerEntry) *api.LedgerEntry {
	return &api.LedgerEntry{
		EntryId:     entry.EntryID,
		InvoiceId:   entry.InvoiceID,
		AccountId:   entry.AccountID,
		Debit:       entry.Debit.StringFixed(2),
		Credit:      entry.Credit.StringFixed(2),
		Currency:    entry.Currency,
		Description: entry.Description,
		Timestamp:   entry.Timestamp,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ToApiVerificationResult converts an oracle result to its API model.
func ToApiVerificationResult(res *models.VerificationResult) *api.VerificationResult {
	return &api.VerificationResult{
		RecordId:      res.RecordID,
		IsVerified:    res.IsVerified,
		Status:        api.VerificationStatus(res.Status),
		Reason:        optional(res.Reason),
		ExpectedHash:  optional(res.ExpectedHash),
		AnchoredHash:  optional(res.AnchoredHash),
		Confirmations: int64(res.Confirmations),
		AnchorProof:   ToApiChainAnchor(res.AnchorProof),
		IssuerInfo: api.IssuerInfo{
			ProviderId:   optional(res.IssuerInfo.ProviderID),
			ProviderName: optional(res.IssuerInfo.ProviderName),
			Network:      res.IssuerInfo.Network,
		},
		CheckedAt: res.CheckedAt,
	}
}

// ToApiError maps a marketplace error to its HTTP status and API error body.
func ToApiError(err error) (int, *api.Error) {
	var (
		verr   *marketplace.ValidationError
		serr   *marketplace.InvalidStateError
		anchor *marketplace.AnchorUnavailableError
	)
	switch {
	case errors.As(err, &verr):
		fields := make([]api.FieldError, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, api.FieldError{Field: f.Field, Message: f.Message})
		}
		return http.StatusBadRequest, &api.Error{Code: "validation_failed", Message: "Invalid request", Fields: &fields}
	case errors.Is(err, marketplace.ErrNotFound):
		return http.StatusNotFound, &api.Error{Code: "not_found", Message: err.Error()}
	case errors.Is(err, marketplace.ErrAlreadyFunded):
		return http.StatusConflict, &api.Error{Code: "already_funded", Message: "Invoice has already been funded"}
	case errors.Is(err, marketplace.ErrFundingPending):
		return http.StatusConflict, &api.Error{Code: "funding_pending", Message: "Funding is not yet confirmed, retry later"}
	case errors.As(err, &serr):
		return http.StatusUnprocessableEntity, &api.Error{Code: "invalid_state", Message: err.Error()}
	case errors.As(err, &anchor):
		return http.StatusServiceUnavailable, &api.Error{
			Code:           "anchor_unavailable",
			Message:        "Chain anchor unavailable, retry later",
			IdempotencyKey: optional(anchor.IdempotencyKey),
		}
	case errors.Is(err, marketplace.ErrInvalidInput):
		return http.StatusBadRequest, &api.Error{Code: "validation_failed", Message: err.Error()}
	}
	return http.StatusInternalServerError, &api.Error{Code: "internal", Message: "Internal server error"}
}
