package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDomain(t *testing.T) {
	tests := []struct {
		input string
		want  Domain
	}{
		{"tax", DomainTax},
		{"MTD", DomainTax},
		{"tenancy-rights", DomainTenancyRights},
		{" renters-rights ", DomainTenancyRights},
		{"energy", DomainEnergy},
		{"epc", DomainEnergy},
		{"certificate", DomainCertificate},
		{"fire-safety", DomainCustom},
		{"", DomainCustom},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDomain(tt.input))
		})
	}
}

func TestDomain_IsScored(t *testing.T) {
	for _, d := range ScoredDomains {
		assert.True(t, d.IsScored(), d)
	}
	assert.False(t, DomainCertificate.IsScored())
	assert.False(t, DomainCustom.IsScored())
}

func TestParsePriority(t *testing.T) {
	assert.Equal(t, PriorityCritical, ParsePriority("critical"))
	assert.Equal(t, PriorityLow, ParsePriority("low"))
	assert.Equal(t, PriorityMedium, ParsePriority("urgent"))
}
