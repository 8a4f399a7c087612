package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // v1
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"",
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31", "2024-02-29"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", "2023-02-29", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	valid := []string{"+7 (912) 345-67-89", "89123456789", "555-0100", "+44 20 7946 0958"}
	invalid := []string{"12345", "abc1234567", "+7 912 345 67 89 00 11 22", "phone", ""}
	for _, phone := range valid {
		assert.True(t, IsValidPhoneNumber(phone), phone)
	}
	for _, phone := range invalid {
		assert.False(t, IsValidPhoneNumber(phone), phone)
	}
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("admin"))
	assert.True(t, IsValidUsername("anna.k_2"))
	assert.False(t, IsValidUsername("ab"))
	assert.False(t, IsValidUsername("has space"))
}

func TestParseOptionalDate(t *testing.T) {
	got, ok := ParseOptionalDate(nil)
	assert.True(t, ok)
	assert.Nil(t, got)

	blank := "  "
	got, ok = ParseOptionalDate(&blank)
	assert.True(t, ok)
	assert.Nil(t, got)

	bad := "2024-1-1"
	_, ok = ParseOptionalDate(&bad)
	assert.False(t, ok)

	good := "2024-01-15"
	got, ok = ParseOptionalDate(&good)
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, "2024-01-15", got.Format(DateLayout))
}

func TestDecimalHelpers(t *testing.T) {
	assert.True(t, IsNonNegative(decimal.Zero))
	assert.False(t, IsNonNegative(decimal.NewFromInt(-1)))
	assert.True(t, InRange(decimal.RequireFromString("0.5"), decimal.Zero, decimal.NewFromInt(1)))
	assert.False(t, InRange(decimal.RequireFromString("1.01"), decimal.Zero, decimal.NewFromInt(1)))
}

func TestIsValidMoney(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1000", true},
		{"0.01", true},
		{"9999999999.99", true},
		{"-250.5", true},
		{"0.001", false},
		{"10000000000", false},
		{"12.345", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "phone", Message: "required"},
	}
	assert.Equal(t, "email: invalid; phone: required", errs.Error())
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := append(Field("email", "invalid"), ValidationError{Field: "phone", Message: "required"})
	assert.Equal(t, map[string]string{"email": "invalid", "phone": "required"}, errs.ToMap())
}
