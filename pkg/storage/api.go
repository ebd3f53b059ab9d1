package storage

// ApiStore defines the set of non-privileged operations needed by the API and the
// registry/tokenization path. Funding claims and settlement are kept separate.
type ApiStore interface {
	InvoiceStore
	FundingReader
	LedgerReader
}
