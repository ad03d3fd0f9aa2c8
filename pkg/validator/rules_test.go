package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lcflow/accesskit/pkg/validator"
)

func TestRequired(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{name: "value present", value: "organization_admin", valid: true},
		{name: "empty", value: "", valid: false},
		{name: "whitespace only", value: "   ", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.valid, validator.Required("field", tt.value).Check())
		})
	}
}

func TestValidEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{name: "plain address", value: "officer@firstbank.com", valid: true},
		{name: "subdomain", value: "trade.ops@lc.firstbank.co.uk", valid: true},
		{name: "missing at", value: "officer.firstbank.com", valid: false},
		{name: "missing domain dot", value: "officer@localhost", valid: false},
		{name: "empty domain part", value: "officer@firstbank..com", valid: false},
		{name: "empty", value: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.valid, validator.ValidEmail("email", tt.value).Check())
		})
	}
}

func TestValidPhone(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{name: "e164", value: "+14155550123", valid: true},
		{name: "spaces and dashes", value: "+44 20-7946-0958", valid: true},
		{name: "no plus", value: "14155550123", valid: true},
		{name: "leading zero", value: "+0123456789", valid: false},
		{name: "too short", value: "+1234", valid: false},
		{name: "letters", value: "+1-800-FLOWERS", valid: false},
		{name: "empty", value: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.valid, validator.ValidPhone("phone", tt.value).Check())
		})
	}
}

func TestOneOf(t *testing.T) {
	t.Parallel()

	allowed := []string{"admin", "manager", "member"}
	assert.True(t, validator.OneOf("role", "manager", allowed).Check())
	assert.False(t, validator.OneOf("role", "owner", allowed).Check())
}

func TestValidCIDR(t *testing.T) {
	t.Parallel()

	assert.True(t, validator.ValidCIDR("range", "10.0.0.0/8").Check())
	assert.True(t, validator.ValidCIDR("range", "2001:db8::/32").Check())
	assert.False(t, validator.ValidCIDR("range", "10.0.0.1").Check())
	assert.False(t, validator.ValidCIDR("range", "").Check())
}

func TestValidTimeOfDay(t *testing.T) {
	t.Parallel()

	assert.True(t, validator.ValidTimeOfDay("start", "09:00").Check())
	assert.True(t, validator.ValidTimeOfDay("end", "23:59").Check())
	assert.False(t, validator.ValidTimeOfDay("start", "24:00").Check())
	assert.False(t, validator.ValidTimeOfDay("start", "9:00").Check())
	assert.False(t, validator.ValidTimeOfDay("start", "nine").Check())
}
