package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAppleID(t *testing.T) {
	tests := []struct {
		name    string
		appleID string
		errMsg  string
		wantErr bool
	}{
		{
			name:    "valid apple id",
			appleID: "ann@icloud.com",
		},
		{
			name:    "valid apple id - subdomain",
			appleID: "ann.smith@mail.example.org",
		},
		{
			name:    "invalid - empty",
			appleID: "",
			wantErr: true,
			errMsg:  "apple id cannot be empty",
		},
		{
			name:    "invalid - no domain",
			appleID: "ann",
			wantErr: true,
			errMsg:  "apple id must be an email address",
		},
		{
			name:    "invalid - spaces",
			appleID: "ann smith@icloud.com",
			wantErr: true,
			errMsg:  "apple id must be an email address",
		},
		{
			name:    "invalid - too long",
			appleID: strings.Repeat("a", 250) + "@x.io",
			wantErr: true,
			errMsg:  "apple id must not exceed 254 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAppleID(tt.appleID)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.NoError(t, ValidatePassword("secret"))
}

func TestNormalizeVerificationCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "123456", want: "123456"},
		{name: "with spaces", input: " 123 456 ", want: "123456"},
		{name: "empty", input: "   ", wantErr: true},
		{name: "too short", input: "12345", wantErr: true},
		{name: "letters", input: "12a456", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeVerificationCode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDeviceIndex(t *testing.T) {
	idx, err := ParseDeviceIndex(" 1 ", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = ParseDeviceIndex("2", 2)
	assert.Error(t, err)

	_, err = ParseDeviceIndex("-1", 2)
	assert.Error(t, err)

	_, err = ParseDeviceIndex("phone", 2)
	assert.Error(t, err)
}
