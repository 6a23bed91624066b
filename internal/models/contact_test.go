package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContact_JSON(t *testing.T) {
	raw := `{
		"name": {"first_name": "Ann", "last_name": "Lee"},
		"birthday": "XXXX-04-12",
		"dated": {"start": "2019-XX-XX"},
		"phone_numbers": [{"number": "8605551234"}, {"number": "7700900123", "country_code": 44}],
		"icloud": {"uuid": "A1B2", "etag": "C=5"}
	}`

	var c Contact
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.Equal(t, "Ann", *c.Name.FirstName)
	assert.Nil(t, c.Birthday.Year)
	assert.Equal(t, 4, *c.Birthday.Month)
	assert.Equal(t, 2019, *c.Dated.Start.Year)
	assert.Nil(t, c.Dated.End)
	assert.Equal(t, DefaultCountryCode, c.PhoneNumbers[0].CountryCode)
	assert.Equal(t, 44, c.PhoneNumbers[1].CountryCode)
	assert.Equal(t, RemoteID("A1B2"), c.RemoteUUID())

	out, err := json.Marshal(&c)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"birthday":"XXXX-04-12"`)
	assert.Contains(t, string(out), `"dated":{"start":"2019-XX-XX"}`)
	assert.NotContains(t, string(out), "tags")
}

func TestContact_JSON_EmptyRemoteID(t *testing.T) {
	var c Contact
	err := json.Unmarshal([]byte(`{"name": {}, "icloud": {"uuid": ""}}`), &c)
	assert.ErrorIs(t, err, ErrEmptyRemoteID)
}

func TestContact_Normalize(t *testing.T) {
	c := Contact{
		Tags: []string{"Work", "Friends", "Work"},
		EmailAddresses: []EmailAddress{
			{Address: "z@example.com", Label: "WORK"},
			{Address: "a@example.com", Label: "HOME"},
		},
	}
	c.Normalize()

	assert.Equal(t, []string{"Friends", "Work"}, c.Tags)
	assert.Equal(t, "a@example.com", c.EmailAddresses[0].Address)
}

func TestContact_DisplayNameAndSortKey(t *testing.T) {
	tests := []struct {
		name    string
		contact Contact
		display string
		sortKey string
	}{
		{
			name:    "full name",
			contact: Contact{Name: Name{FirstName: ptr("Ann"), LastName: ptr("Lee")}, Tags: []string{"A", "B"}},
			display: "Ann Lee",
			sortKey: "LeeAnnA,B",
		},
		{
			name:    "first name only",
			contact: Contact{Name: Name{FirstName: ptr("Ann")}},
			display: "Ann",
			sortKey: " Ann",
		},
		{
			name:    "no name",
			contact: Contact{},
			display: "<unnamed>",
			sortKey: " ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.display, tt.contact.DisplayName())
			assert.Equal(t, tt.sortKey, tt.contact.SortKey())
		})
	}
}

func TestNewRemoteID(t *testing.T) {
	id := NewRemoteID()
	assert.Len(t, id.String(), 36)
	assert.Equal(t, strings.ToUpper(id.String()), id.String())
	assert.NotEqual(t, id, NewRemoteID())
	assert.False(t, id.IsZero())
	assert.True(t, RemoteID("").IsZero())
}

func TestRemoteIDsRoundTrip(t *testing.T) {
	assert.Nil(t, RemoteIDs(nil))
	assert.Nil(t, Strings(nil))
	assert.Equal(t, []string{"A", "B"}, Strings(RemoteIDs([]string{"A", "B"})))
}
