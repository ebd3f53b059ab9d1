package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/chris/invoice-funding-marketplace/pkg/storage"
)

const invoiceColumns = `id, provider_id, provider_name, patient_id, patient_name, service_description,
	amount, currency, issue_date, due_date, attachment_file_name, attachment_content_type,
	attachment_sha256, status, tokenization, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*models.Invoice, error) {
	var (
		inv                                   models.Invoice
		patientID, patientName                sql.NullString
		fileName, contentType, attachmentHash sql.NullString
		status                                string
		tokenization                          []byte
	)
	if err := row.Scan(
		&inv.ID,
		&inv.Provider.ID,
		&inv.Provider.Name,
		&patientID,
		&patientName,
		&inv.ServiceDescription,
		&inv.Amount,
		&inv.Currency,
		&inv.IssueDate,
		&inv.DueDate,
		&fileName,
		&contentType,
		&attachmentHash,
		&status,
		&tokenization,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	); err != nil {
		return nil, err
	}

	inv.Status = models.InvoiceStatus(status)
	if patientID.Valid {
		inv.Patient = &models.Party{ID: patientID.String, Name: patientName.String}
	}
	if attachmentHash.Valid {
		inv.Attachment = &models.Attachment{FileName: fileName.String, ContentType: contentType.String, SHA256: attachmentHash.String}
	}
	if len(tokenization) > 0 {
		var t models.Tokenization
		if err := json.Unmarshal(tokenization, &t); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tokenization: %w", err)
		}
		inv.Tokenization = &t
	}
	return &inv, nil
}

func nullString(s string, valid bool) sql.NullString {
	return sql.NullString{String: s, Valid: valid}
}

func (s *Store) CreateInvoice(ctx context.Context, inv *models.Invoice) (*models.Invoice, error) {
	var patientID, patientName sql.NullString
	if inv.Patient != nil {
		patientID = nullString(inv.Patient.ID, true)
		patientName = nullString(inv.Patient.Name, true)
	}
	var fileName, contentType, attachmentHash sql.NullString
	if inv.Attachment != nil {
		fileName = nullString(inv.Attachment.FileName, true)
		contentType = nullString(inv.Attachment.ContentType, true)
		attachmentHash = nullString(inv.Attachment.SHA256, true)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NULL, $15, $16)`,
		inv.ID, inv.Provider.ID, inv.Provider.Name, patientID, patientName, inv.ServiceDescription,
		inv.Amount, inv.Currency, inv.IssueDate, inv.DueDate, fileName, contentType, attachmentHash,
		string(inv.Status), inv.CreatedAt.UTC(), inv.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to insert invoice: %w", err)
	}
	return inv, nil
}

func (s *Store) GetInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, invoiceID)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("invoice %s: %w", invoiceID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

func (s *Store) ListInvoicesByStatus(ctx context.Context, status models.InvoiceStatus) ([]models.Invoice, error) {
	return s.queryInvoices(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE status = $1 ORDER BY updated_at`,
		string(status))
}

func (s *Store) ListStuckFundings(ctx context.Context, maxAge time.Duration) ([]models.Invoice, error) {
	return s.queryInvoices(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE status = $1 AND updated_at < $2 ORDER BY updated_at`,
		string(models.FUNDING), time.Now().Add(-maxAge).UTC())
}

func (s *Store) queryInvoices(ctx context.Context, query string, args ...any) ([]models.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]models.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}
	return invoices, nil
}

func (s *Store) MarkTokenized(ctx context.Context, invoiceID string, t *models.Tokenization) (*models.Invoice, error) {
	payload, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tokenization: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE invoices SET status = $1, tokenization = $2, updated_at = $3
		WHERE id = $4 AND status = $5
		RETURNING `+invoiceColumns,
		string(models.TOKENIZED), payload, time.Now().UTC(), invoiceID, string(models.PENDING),
	)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrStatusConflict
		}
		return nil, fmt.Errorf("failed to update invoice status to TOKENIZED: %w", err)
	}
	return inv, nil
}
