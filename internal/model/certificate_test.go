package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveCertificateStatus(t *testing.T) {
	now := time.Date(2026, 10, 16, 15, 30, 0, 0, time.UTC)
	date := func(y int, m time.Month, d int) *time.Time {
		v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &v
	}

	tests := []struct {
		expiry *time.Time
		name   string
		want   CertificateStatus
	}{
		{name: "no expiry", expiry: nil, want: CertificateMissing},
		{name: "yesterday", expiry: date(2026, 10, 15), want: CertificateExpired},
		{name: "today", expiry: date(2026, 10, 16), want: CertificateExpiringSoon},
		{name: "in two weeks", expiry: date(2026, 10, 30), want: CertificateExpiringSoon},
		{name: "next year", expiry: date(2027, 10, 16), want: CertificateValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveCertificateStatus(tt.expiry, now))
		})
	}
}

func TestCertificate_KindName(t *testing.T) {
	assert.Equal(t, "Gas Safety Certificate", Certificate{Kind: "gas_safety"}.KindName())
	assert.Equal(t, "Carbon Monoxide Check", Certificate{Kind: "carbon_monoxide_check"}.KindName())
	assert.Equal(t, "Certificate", Certificate{}.KindName())
}

func TestTask_InScope(t *testing.T) {
	p1, p2 := "p1", "p2"

	accountWide := Task{}
	scoped := Task{PropertyID: &p1}

	assert.True(t, accountWide.InScope(&p1))
	assert.True(t, accountWide.InScope(nil))
	assert.True(t, scoped.InScope(&p1))
	assert.False(t, scoped.InScope(&p2))
	assert.True(t, scoped.InScope(nil))
}

func TestTask_Validate(t *testing.T) {
	valid := Task{OwnerID: "u1", Key: "mtd-software", Title: "Choose software"}
	assert.NoError(t, valid.Validate())

	missingKey := valid
	missingKey.Key = ""
	assert.Error(t, missingKey.Validate())

	completedWithoutTime := valid
	completedWithoutTime.IsCompleted = true
	assert.Error(t, completedWithoutTime.Validate())
}
