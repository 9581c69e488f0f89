package telguarder

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneNumber(t *testing.T) {
	tests := []struct {
		name     string
		number   string
		expected string
		wantErr  bool
	}{
		{
			name:     "valid E.164 US number",
			number:   "+15550101234",
			expected: "+15550101234",
		},
		{
			name:     "US number with parentheses and country code",
			number:   "+1 (555) 010-1234",
			expected: "+15550101234",
		},
		{
			name:     "US number with dashes",
			number:   "555-010-1234",
			expected: "+15550101234",
		},
		{
			name:     "US number with spaces",
			number:   "1 555 010 1234",
			expected: "+15550101234",
		},
		{
			name:     "norwegian number in E.164",
			number:   "+4748841651",
			expected: "+4748841651",
		},
		{
			name:     "E.164 with embedded spaces",
			number:   "+47 48 84 16 51",
			expected: "+4748841651",
		},
		{
			name:    "empty",
			number:  "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			number:  "   ",
			wantErr: true,
		},
		{
			name:    "too short",
			number:  "123",
			wantErr: true,
		},
		{
			name:    "letters",
			number:  "abc-def-ghij",
			wantErr: true,
		},
		{
			name:    "too long",
			number:  "+1234567890123456789",
			wantErr: true,
		},
		{
			name:    "leading zero country code",
			number:  "+0475550101",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phone, err := NewPhoneNumber(tt.number)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsInvalidInput(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, phone.String())
		})
	}
}

func TestNewPhoneNumber_Idempotent(t *testing.T) {
	inputs := []string{"+1 (555) 010-1234", "555-010-1234", "+4748841651"}

	for _, in := range inputs {
		first, err := NewPhoneNumber(in)
		require.NoError(t, err)

		second, err := NewPhoneNumber(first.String())
		require.NoError(t, err)
		assert.True(t, first.Equal(second))
		assert.Equal(t, first.E164(), second.E164())
	}
}

func TestNewPhoneNumberE164(t *testing.T) {
	tests := []struct {
		name    string
		number  string
		wantErr bool
	}{
		{name: "valid", number: "+15550101234"},
		{name: "missing plus", number: "15550101234", wantErr: true},
		{name: "formatted input rejected", number: "+1 (555) 010-1234", wantErr: true},
		{name: "starts with zero", number: "+05550101234", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPhoneNumberE164(tt.number)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPhoneNumber_Parts(t *testing.T) {
	us := MustNewPhoneNumber("+15550101234")
	assert.Equal(t, "+1", us.CountryCode())
	assert.Equal(t, "5550101234", us.NationalNumber())

	no := MustNewPhoneNumber("+4748841651")
	assert.Equal(t, "+47", no.CountryCode())
	assert.Equal(t, "48841651", no.NationalNumber())
}

func TestPhoneNumber_JSON(t *testing.T) {
	phone := MustNewPhoneNumber("+4748841651")

	data, err := json.Marshal(phone)
	require.NoError(t, err)
	assert.Equal(t, `"+4748841651"`, string(data))

	var decoded PhoneNumber
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, phone.Equal(decoded))

	var invalid PhoneNumber
	assert.Error(t, json.Unmarshal([]byte(`"bogus"`), &invalid))
}

func TestMustNewPhoneNumber_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustNewPhoneNumber("not a number")
	})
}
