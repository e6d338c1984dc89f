package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/service"
)

// CreateCertificate saves a certificate. The status is derived from the
// expiry date when the caller leaves it empty.
func (s *SQLiteStorage) CreateCertificate(ctx context.Context, certificate *model.Certificate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCertificate(certificate); err != nil {
		return err
	}
	return createCertificate(ctx, s.db, certificate)
}

func createCertificate(ctx context.Context, q querier, certificate *model.Certificate) error {
	if certificate.ID == "" {
		certificate.ID = uuid.NewString()
	}
	if certificate.Status == "" {
		certificate.Status = model.DeriveCertificateStatus(certificate.ExpiryDate, time.Now())
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO certificates (id, property_id, kind, status, issued_date, expiry_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		certificate.ID, certificate.PropertyID, certificate.Kind, string(certificate.Status),
		utcDate(certificate.IssuedDate), utcDate(certificate.ExpiryDate))
	if err != nil {
		return fmt.Errorf("failed to create certificate: %w", err)
	}
	return nil
}

// ListCertificates returns the certificates matching filter, soonest expiry first.
func (s *SQLiteStorage) ListCertificates(ctx context.Context, filter service.CertificateFilter) ([]model.Certificate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return listCertificates(ctx, s.db, filter)
}

func listCertificates(ctx context.Context, q querier, filter service.CertificateFilter) ([]model.Certificate, error) {
	builder := sq.Select("c.id", "c.property_id", "c.kind", "c.status", "c.issued_date", "c.expiry_date").
		From("certificates c").
		Join("properties p ON p.id = c.property_id")

	if filter.OwnerID != "" {
		builder = builder.Where(sq.Eq{"p.owner_id": filter.OwnerID})
	}
	if filter.PropertyID != nil {
		builder = builder.Where(sq.Eq{"c.property_id": *filter.PropertyID})
	}

	query, args, err := builder.OrderBy("c.expiry_date IS NULL", "c.expiry_date", "c.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build certificate query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	certificates := []model.Certificate{}
	for rows.Next() {
		var (
			cert   model.Certificate
			status string
			issued sql.NullTime
			expiry sql.NullTime
		)
		if err := rows.Scan(&cert.ID, &cert.PropertyID, &cert.Kind, &status, &issued, &expiry); err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		cert.Status = model.CertificateStatus(status)
		if issued.Valid {
			cert.IssuedDate = &issued.Time
		}
		if expiry.Valid {
			cert.ExpiryDate = &expiry.Time
		}
		certificates = append(certificates, cert)
	}
	return certificates, rows.Err()
}
