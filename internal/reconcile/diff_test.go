package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/cardsync/internal/models"
)

func TestCompare(t *testing.T) {
	base := map[string]any{
		"name":  map[string]any{"first_name": "Ann", "last_name": "Lee"},
		"tags":  []string{"a", "b"},
		"notes": "hi",
	}

	t.Run("equal", func(t *testing.T) {
		d, err := Compare(base, base)
		require.NoError(t, err)
		assert.True(t, d.IsEmpty())
	})

	t.Run("nested update", func(t *testing.T) {
		other := map[string]any{
			"name":  map[string]any{"first_name": "Anna", "last_name": "Lee"},
			"tags":  []string{"a", "b"},
			"notes": "hi",
		}
		d, err := Compare(base, other)
		require.NoError(t, err)
		require.False(t, d.IsEmpty())
		assert.Empty(t, d.Insert)
		assert.Empty(t, d.Delete)

		name, ok := d.Update["name"].(*Diff)
		require.True(t, ok)
		assert.Equal(t, map[string]any{"first_name": "Anna"}, name.Update)
		assert.True(t, d.Touches("name"))
		assert.False(t, d.Touches("tags"))
	})

	t.Run("insert delete and list replace", func(t *testing.T) {
		other := map[string]any{
			"name": map[string]any{"first_name": "Ann", "last_name": "Lee"},
			"tags": []string{"a"},
			"id":   7,
		}
		d, err := Compare(base, other)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"id": json.Number("7")}, d.Insert)
		assert.Equal(t, []string{"notes"}, d.Delete)
		assert.Equal(t, []any{"a"}, d.Update["tags"])
	})

	t.Run("unmarshalable", func(t *testing.T) {
		_, err := Compare(map[string]any{"f": func() {}}, base)
		require.Error(t, err)
	})
}

func TestDiff_String(t *testing.T) {
	d, err := Compare(map[string]any{"a": 1}, map[string]any{"a": 2, "b": true})
	require.NoError(t, err)

	assert.JSONEq(t, `{"$insert": {"b": true}, "$update": {"a": 2}}`, d.String())
}

func TestDiff_MetadataOnly(t *testing.T) {
	linked := func(etag *string) *models.Contact {
		return &models.Contact{
			Name:   models.Name{FirstName: ptr("Ann")},
			ICloud: &models.ICloudMetadata{UUID: "R1", Etag: etag},
		}
	}

	tests := []struct {
		name   string
		a, b   *models.Contact
		expect bool
	}{
		{
			name:   "etag updated",
			a:      linked(ptr("C=5")),
			b:      linked(ptr("C=6")),
			expect: true,
		},
		{
			name:   "etag inserted",
			a:      linked(nil),
			b:      linked(ptr("C=6")),
			expect: true,
		},
		{
			name:   "etag removed",
			a:      linked(ptr("C=6")),
			b:      linked(nil),
			expect: false,
		},
		{
			name: "etag and name",
			a:    linked(ptr("C=5")),
			b: func() *models.Contact {
				c := linked(ptr("C=6"))
				c.Name.FirstName = ptr("Anna")
				return c
			}(),
			expect: false,
		},
		{
			name: "etag and uuid",
			a:    linked(ptr("C=5")),
			b: &models.Contact{
				Name:   models.Name{FirstName: ptr("Ann")},
				ICloud: &models.ICloudMetadata{UUID: "R2", Etag: ptr("C=6")},
			},
			expect: false,
		},
		{
			name:   "link inserted",
			a:      &models.Contact{Name: models.Name{FirstName: ptr("Ann")}},
			b:      linked(ptr("C=6")),
			expect: false,
		},
		{
			name: "photo changed",
			a:    linked(ptr("C=5")),
			b: func() *models.Contact {
				c := linked(ptr("C=5"))
				c.ICloud.Photo = &models.Photo{URL: "https://example.com/p.jpg"}
				return c
			}(),
			expect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, d.MetadataOnly())
		})
	}

	var empty *Diff
	assert.False(t, empty.MetadataOnly())
	assert.True(t, empty.IsEmpty())
}
