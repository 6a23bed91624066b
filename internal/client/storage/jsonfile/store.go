// Package jsonfile хранит локальный набор контактов в JSON файле:
// массив, по одному объекту на строку, в порядке фамилия, имя, теги.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/iudanet/cardsync/internal/client/storage"
	"github.com/iudanet/cardsync/internal/fsutil"
	"github.com/iudanet/cardsync/internal/models"
)

const filePerm = 0600

// Store локальный файл контактов
type Store struct {
	path string
}

var _ storage.LocalStore = (*Store)(nil)

// New создает хранилище поверх файла path
func New(path string) *Store {
	return &Store{path: path}
}

// Path путь к файлу
func (s *Store) Path() string {
	return s.path
}

// Load читает контакты; отсутствующий файл это пустой набор
func (s *Store) Load(ctx context.Context) ([]models.Contact, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.Contact{}, nil
		}
		return nil, fmt.Errorf("failed to read contacts file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Contact{}, nil
	}

	var contacts []models.Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	for i := range contacts {
		contacts[i].Normalize()
	}
	return contacts, nil
}

// Save сортирует контакты и атомарно перезаписывает файл
func (s *Store) Save(ctx context.Context, contacts []models.Contact) error {
	data, err := Encode(contacts)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(s.path, data, filePerm)
}

// Encode сериализует контакты в формат файла
func Encode(contacts []models.Contact) ([]byte, error) {
	sorted := slices.Clone(contacts)
	slices.SortStableFunc(sorted, func(a, b models.Contact) int {
		return strings.Compare(a.SortKey(), b.SortKey())
	})

	var buf bytes.Buffer
	buf.WriteString("[\n")
	for i := range sorted {
		line, err := json.Marshal(&sorted[i])
		if err != nil {
			return nil, fmt.Errorf("contact %q: failed to encode: %w", sorted[i].DisplayName(), err)
		}
		buf.WriteString("    ")
		buf.Write(line)
		if i < len(sorted)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("]\n")
	return buf.Bytes(), nil
}
