package translator

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iudanet/cardsync/internal/models"
)

// Блок заметок хранит в поле notes удаленной записи все, для чего у сервиса нет своих полей.
// Формат YAML, неизвестные ключи считаются ошибкой.

const listSeparator = ", "

type notesSchool struct {
	GradYear *int    `yaml:"grad_year,omitempty"`
	Majors   *string `yaml:"majors,omitempty"`
	Minors   *string `yaml:"minors,omitempty"`
	Name     string  `yaml:"name"`
}

type notesEducation struct {
	Bachelor   *notesSchool `yaml:"bachelor,omitempty"`
	HighSchool *notesSchool `yaml:"high_school,omitempty"`
	Law        *notesSchool `yaml:"law,omitempty"`
	Master     *notesSchool `yaml:"master,omitempty"`
	Medical    *notesSchool `yaml:"medical,omitempty"`
	PhD        *notesSchool `yaml:"phd,omitempty"`
}

type notesFavorite struct {
	Candy *string `yaml:"candy,omitempty"`
	Color *string `yaml:"color,omitempty"`
}

type notesFriend struct {
	Name string `yaml:"name"`
	UUID string `yaml:"uuid"`
}

type notesRange struct {
	Start *string `yaml:"start,omitempty"`
	End   *string `yaml:"end,omitempty"`
}

type notesBlock struct {
	ChineseName   *string         `yaml:"chinese_name,omitempty"`
	Comment       *string         `yaml:"comment,omitempty"`
	Education     *notesEducation `yaml:"education,omitempty"`
	Favorite      *notesFavorite  `yaml:"favorite,omitempty"`
	FriendsFriend *notesFriend    `yaml:"friends_friend,omitempty"`
	Partner       *notesRange     `yaml:"partner,omitempty"`
}

// hasNotes сообщает, нужен ли контакту блок заметок
func hasNotes(c *models.Contact) bool {
	return c.Name.ChineseName != nil ||
		c.Notes != nil ||
		c.Education != nil ||
		c.Favorite != nil ||
		c.FriendsFriend != nil ||
		c.Dated != nil
}

// encodeNotes сериализует поля без прямого аналога в YAML блок
func encodeNotes(c *models.Contact) (string, error) {
	block := notesBlock{
		ChineseName: clone(c.Name.ChineseName),
		Comment:     clone(c.Notes),
	}
	if c.Education != nil {
		block.Education = &notesEducation{
			Bachelor: encodeUniversity(c.Education.Bachelor),
			Law:      encodeUniversity(c.Education.Law),
			Master:   encodeUniversity(c.Education.Master),
			Medical:  encodeUniversity(c.Education.Medical),
			PhD:      encodeUniversity(c.Education.PhD),
		}
		if hs := c.Education.HighSchool; hs != nil {
			block.Education.HighSchool = &notesSchool{Name: hs.Name, GradYear: clone(hs.GraduationYear)}
		}
	}
	if c.Favorite != nil {
		block.Favorite = &notesFavorite{Candy: clone(c.Favorite.Candy), Color: clone(c.Favorite.Color)}
	}
	if c.FriendsFriend != nil {
		block.FriendsFriend = &notesFriend{Name: c.FriendsFriend.Name, UUID: c.FriendsFriend.UUID.String()}
	}
	if c.Dated != nil {
		block.Partner = &notesRange{}
		if c.Dated.Start != nil {
			s := c.Dated.Start.String()
			block.Partner.Start = &s
		}
		if c.Dated.End != nil {
			s := c.Dated.End.String()
			block.Partner.End = &s
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&block); err != nil {
		return "", fmt.Errorf("failed to encode notes: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode notes: %w", err)
	}
	return buf.String(), nil
}

func encodeUniversity(u *models.University) *notesSchool {
	if u == nil {
		return nil
	}
	return &notesSchool{
		Name:     u.Name,
		GradYear: clone(u.GraduationYear),
		Majors:   joinList(u.Majors),
		Minors:   joinList(u.Minors),
	}
}

// decodeNotes заполняет поля контакта из блока заметок
func decodeNotes(id, notes string, c *models.Contact) error {
	var block notesBlock
	dec := yaml.NewDecoder(strings.NewReader(notes))
	dec.KnownFields(true)
	if err := dec.Decode(&block); err != nil {
		return notesError(id, err)
	}

	c.Name.ChineseName = block.ChineseName
	c.Notes = block.Comment

	if e := block.Education; e != nil {
		c.Education = &models.Education{
			Bachelor: decodeUniversity(e.Bachelor),
			Law:      decodeUniversity(e.Law),
			Master:   decodeUniversity(e.Master),
			Medical:  decodeUniversity(e.Medical),
			PhD:      decodeUniversity(e.PhD),
		}
		if hs := e.HighSchool; hs != nil {
			if hs.Majors != nil || hs.Minors != nil {
				return notesError(id, fmt.Errorf("high_school has no majors or minors"))
			}
			c.Education.HighSchool = &models.HighSchool{Name: hs.Name, GraduationYear: hs.GradYear}
		}
	}
	if block.Favorite != nil {
		c.Favorite = &models.Favorite{Candy: block.Favorite.Candy, Color: block.Favorite.Color}
	}
	if f := block.FriendsFriend; f != nil {
		if f.Name == "" || f.UUID == "" {
			return notesError(id, fmt.Errorf("friends_friend requires name and uuid"))
		}
		c.FriendsFriend = &models.FriendsFriend{Name: f.Name, UUID: models.RemoteID(f.UUID)}
	}
	if p := block.Partner; p != nil {
		dated := &models.DateRange{}
		var err error
		if dated.Start, err = parseNotesDate(p.Start); err != nil {
			return notesError(id, err)
		}
		if dated.End, err = parseNotesDate(p.End); err != nil {
			return notesError(id, err)
		}
		c.Dated = dated
	}
	return nil
}

func decodeUniversity(s *notesSchool) *models.University {
	if s == nil {
		return nil
	}
	return &models.University{
		Name:           s.Name,
		GraduationYear: s.GradYear,
		Majors:         splitList(s.Majors),
		Minors:         splitList(s.Minors),
	}
}

func parseNotesDate(s *string) (*models.Date, error) {
	if s == nil {
		return nil, nil
	}
	d, err := models.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func notesError(id string, err error) error {
	return &TranslationError{
		ContactID: id,
		Field:     "notes",
		Err:       fmt.Errorf("%w: %w", ErrNotesBlock, err),
	}
}

func joinList(items []string) *string {
	if len(items) == 0 {
		return nil
	}
	s := strings.Join(items, listSeparator)
	return &s
}

func splitList(s *string) []string {
	if s == nil || *s == "" {
		return nil
	}
	return strings.Split(*s, listSeparator)
}
