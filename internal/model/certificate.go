package model

import (
	"strings"
	"time"
)

// CertificateStatus is the validity state of a certificate.
type CertificateStatus string

const (
	// CertificateValid is in date.
	CertificateValid CertificateStatus = "valid"
	// CertificateExpiringSoon expires within ExpiringSoonWindow.
	CertificateExpiringSoon CertificateStatus = "expiring_soon"
	// CertificateExpired is past its expiry date.
	CertificateExpired CertificateStatus = "expired"
	// CertificateMissing has never been recorded.
	CertificateMissing CertificateStatus = "missing"
)

// ExpiringSoonWindow is how far ahead an expiry counts as expiring soon.
const ExpiringSoonWindow = 30 * 24 * time.Hour

// Certificate is a safety or energy certificate held for a property.
type Certificate struct {
	IssuedDate *time.Time        `json:"issuedDate,omitempty"`
	ExpiryDate *time.Time        `json:"expiryDate,omitempty"`
	ID         string            `json:"id"`
	PropertyID string            `json:"propertyId"`
	Kind       string            `json:"kind"`
	Status     CertificateStatus `json:"status"`
}

var certificateKindNames = map[string]string{
	"gas_safety": "Gas Safety Certificate",
	"eicr":       "Electrical Installation Condition Report",
	"epc":        "Energy Performance Certificate",
	"hmo":        "HMO Licence",
	"selective":  "Selective Licence",
	"legionella": "Legionella Risk Assessment",
	"fire_alarm": "Fire Alarm Inspection",
}

// KindName returns the display name for the certificate kind.
func (c Certificate) KindName() string {
	if name, ok := certificateKindNames[c.Kind]; ok {
		return name
	}
	if c.Kind == "" {
		return "Certificate"
	}
	words := strings.Fields(strings.ReplaceAll(c.Kind, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// DeriveCertificateStatus computes the status from the expiry date relative to now.
func DeriveCertificateStatus(expiry *time.Time, now time.Time) CertificateStatus {
	if expiry == nil {
		return CertificateMissing
	}
	today := StartOfDay(now)
	switch {
	case StartOfDay(*expiry).Before(today):
		return CertificateExpired
	case expiry.Sub(today) <= ExpiringSoonWindow:
		return CertificateExpiringSoon
	default:
		return CertificateValid
	}
}

// StartOfDay strips the time component, keeping the location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
