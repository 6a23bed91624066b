package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/google/go-cmp/cmp"
)

// Diff описывает отличия двух JSON объектов в явной форме:
// новые ключи, измененные ключи (вложенный *Diff для объектов) и удаленные ключи.
type Diff struct {
	Insert map[string]any `json:"$insert,omitempty"`
	Update map[string]any `json:"$update,omitempty"`
	Delete []string       `json:"$delete,omitempty"`
}

// Compare сравнивает JSON представления a и b
func Compare(a, b any) (*Diff, error) {
	left, err := toObject(a)
	if err != nil {
		return nil, err
	}
	right, err := toObject(b)
	if err != nil {
		return nil, err
	}
	return diffObjects(left, right), nil
}

func toObject(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal for diff: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("failed to decode for diff: %w", err)
	}
	if obj == nil {
		obj = map[string]any{}
	}
	return obj, nil
}

func diffObjects(left, right map[string]any) *Diff {
	d := &Diff{}
	for _, key := range slices.Sorted(maps.Keys(right)) {
		newValue := right[key]
		oldValue, ok := left[key]
		if !ok {
			if d.Insert == nil {
				d.Insert = map[string]any{}
			}
			d.Insert[key] = newValue
			continue
		}

		oldObj, oldIsObj := oldValue.(map[string]any)
		newObj, newIsObj := newValue.(map[string]any)
		if oldIsObj && newIsObj {
			if nested := diffObjects(oldObj, newObj); !nested.IsEmpty() {
				d.setUpdate(key, nested)
			}
			continue
		}

		if !cmp.Equal(oldValue, newValue) {
			d.setUpdate(key, newValue)
		}
	}
	for _, key := range slices.Sorted(maps.Keys(left)) {
		if _, ok := right[key]; !ok {
			d.Delete = append(d.Delete, key)
		}
	}
	return d
}

func (d *Diff) setUpdate(key string, v any) {
	if d.Update == nil {
		d.Update = map[string]any{}
	}
	d.Update[key] = v
}

// IsEmpty сообщает, что отличий нет
func (d *Diff) IsEmpty() bool {
	return d == nil || (len(d.Insert) == 0 && len(d.Update) == 0 && len(d.Delete) == 0)
}

// Touches сообщает, затронут ли ключ верхнего уровня
func (d *Diff) Touches(key string) bool {
	if d == nil {
		return false
	}
	_, inserted := d.Insert[key]
	_, updated := d.Update[key]
	return inserted || updated || slices.Contains(d.Delete, key)
}

// MetadataOnly сообщает, что изменилась только версия удаленной записи:
// единственное обновление верхнего уровня это "icloud", а внутри него
// вставлен или обновлен ровно ключ "etag".
func (d *Diff) MetadataOnly() bool {
	if d == nil || len(d.Insert) != 0 || len(d.Delete) != 0 || len(d.Update) != 1 {
		return false
	}
	icloud, ok := d.Update["icloud"].(*Diff)
	if !ok || len(icloud.Delete) != 0 {
		return false
	}
	switch {
	case len(icloud.Update) != 0 && len(icloud.Insert) == 0:
		return onlyKey(icloud.Update, "etag")
	case len(icloud.Insert) != 0 && len(icloud.Update) == 0:
		return onlyKey(icloud.Insert, "etag")
	}
	return false
}

func onlyKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return len(m) == 1 && ok
}

// String возвращает отличия в виде JSON с отступами
func (d *Diff) String() string {
	raw, err := json.MarshalIndent(d, "", "    ")
	if err != nil {
		return fmt.Sprintf("<diff: %v>", err)
	}
	return string(raw)
}
