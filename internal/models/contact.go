package models

import (
	"encoding/json"
	"slices"
	"sort"
	"strings"
)

// Contact представляет локальную запись контакта.
// Поля со значением nil считаются отсутствующими: они не попадают в JSON
// и никогда не затирают существующие значения при Patch.
type Contact struct {
	Name            Name            `json:"name"`
	ID              *int            `json:"id,omitempty"`
	Birthday        *Date           `json:"birthday,omitempty"`
	Dated           *DateRange      `json:"dated,omitempty"`
	Education       *Education      `json:"education,omitempty"`
	EmailAddresses  []EmailAddress  `json:"email_addresses,omitempty"`
	Favorite        *Favorite       `json:"favorite,omitempty"`
	FriendsFriend   *FriendsFriend  `json:"friends_friend,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	PhoneNumbers    []PhoneNumber   `json:"phone_numbers,omitempty"`
	SocialProfiles  *SocialProfiles `json:"social_profiles,omitempty"`
	StreetAddresses []StreetAddress `json:"street_addresses,omitempty"`
	Tags            []string        `json:"tags,omitempty"`
	Mtime           *float64        `json:"mtime,omitempty"`
	ICloud          *ICloudMetadata `json:"icloud,omitempty"`
}

// Name имя контакта
type Name struct {
	Prefix      *string `json:"prefix,omitempty"`
	FirstName   *string `json:"first_name,omitempty"`
	Nickname    *string `json:"nickname,omitempty"`
	MiddleName  *string `json:"middle_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Suffix      *string `json:"suffix,omitempty"`
	ChineseName *string `json:"chinese_name,omitempty"`
}

// University запись об обучении в университете
type University struct {
	GraduationYear *int     `json:"graduation_year,omitempty"`
	Name           string   `json:"name"`
	Majors         []string `json:"majors,omitempty"`
	Minors         []string `json:"minors,omitempty"`
}

// HighSchool запись о школе
type HighSchool struct {
	GraduationYear *int   `json:"graduation_year,omitempty"`
	Name           string `json:"name"`
}

// Education образование контакта
type Education struct {
	Bachelor   *University `json:"bachelor,omitempty"`
	HighSchool *HighSchool `json:"high_school,omitempty"`
	Law        *University `json:"law,omitempty"`
	Master     *University `json:"master,omitempty"`
	Medical    *University `json:"medical,omitempty"`
	PhD        *University `json:"phd,omitempty"`
}

// EmailAddress адрес почты
type EmailAddress struct {
	Address string `json:"address"`
	Label   string `json:"label"`
}

// Favorite любимые вещи
type Favorite struct {
	Candy *string `json:"candy,omitempty"`
	Color *string `json:"color,omitempty"`
}

// FriendsFriend знакомый, через которого знаем контакт
type FriendsFriend struct {
	Name string   `json:"name"`
	UUID RemoteID `json:"uuid"`
}

// DefaultCountryCode код страны по умолчанию (NANP)
const DefaultCountryCode = 1

// PhoneNumber телефон без кода страны в Number
type PhoneNumber struct {
	Label       *string `json:"label,omitempty"`
	Number      string  `json:"number"`
	CountryCode int     `json:"country_code"`
}

// UnmarshalJSON подставляет DefaultCountryCode, если код не указан
func (p *PhoneNumber) UnmarshalJSON(data []byte) error {
	type plain PhoneNumber
	aux := plain{CountryCode: DefaultCountryCode}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = PhoneNumber(aux)
	return nil
}

// FacebookProfile профиль Facebook
type FacebookProfile struct {
	UserID   *string `json:"user_id,omitempty"`
	Username *string `json:"username,omitempty"`
}

// GameCenterProfile профиль Game Center
type GameCenterProfile struct {
	Link     string `json:"link"`
	Username string `json:"username"`
}

// InstagramProfile профиль Instagram
type InstagramProfile struct {
	Username string `json:"username"`
}

// SocialProfiles профили социальных сетей
type SocialProfiles struct {
	Facebook   *FacebookProfile   `json:"facebook,omitempty"`
	GameCenter *GameCenterProfile `json:"game_center,omitempty"`
	Instagram  *InstagramProfile  `json:"instagram,omitempty"`
}

// StreetAddress почтовый адрес, Street построчно
type StreetAddress struct {
	Country    *string  `json:"country,omitempty"`
	City       *string  `json:"city,omitempty"`
	PostalCode *string  `json:"postal_code,omitempty"`
	State      *string  `json:"state,omitempty"`
	Label      string   `json:"label"`
	Street     []string `json:"street,omitempty"`
}

// PhotoCrop область кадрирования фото
type PhotoCrop struct {
	Height int `json:"height"`
	Width  int `json:"width"`
	X      int `json:"x"`
	Y      int `json:"y"`
}

// Photo фото контакта на стороне удаленного сервиса
type Photo struct {
	Whitelisted *bool     `json:"whitelisted,omitempty"`
	Signature   string    `json:"signature"`
	URL         string    `json:"url"`
	Crop        PhotoCrop `json:"crop"`
}

// ICloudMetadata связь локального контакта с удаленной записью
type ICloudMetadata struct {
	Etag  *string  `json:"etag,omitempty"`
	Photo *Photo   `json:"photo,omitempty"`
	UUID  RemoteID `json:"uuid"`
}

// RemoteUUID возвращает идентификатор удаленной записи или пустую строку,
// если контакт еще не связан
func (c *Contact) RemoteUUID() RemoteID {
	if c.ICloud == nil {
		return ""
	}
	return c.ICloud.UUID
}

// SetTags сортирует теги и убирает дубликаты
func (c *Contact) SetTags(tags []string) {
	if tags == nil {
		c.Tags = nil
		return
	}
	sorted := slices.Clone(tags)
	slices.Sort(sorted)
	c.Tags = slices.Compact(sorted)
}

// SetEmailAddresses сохраняет адреса, отсортированные по Address
func (c *Contact) SetEmailAddresses(addresses []EmailAddress) {
	if addresses == nil {
		c.EmailAddresses = nil
		return
	}
	sorted := slices.Clone(addresses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Address < sorted[j].Address
	})
	c.EmailAddresses = sorted
}

// Normalize приводит списки к каноническому порядку
func (c *Contact) Normalize() {
	c.SetTags(c.Tags)
	c.SetEmailAddresses(c.EmailAddresses)
}

// DisplayName короткое имя для логов и списков
func (c *Contact) DisplayName() string {
	var first, last string
	if c.Name.FirstName != nil {
		first = *c.Name.FirstName
	}
	if c.Name.LastName != nil {
		last = *c.Name.LastName
	}
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	}
	return "<unnamed>"
}

// SortKey ключ сортировки файла контактов: фамилия, имя, теги
func (c *Contact) SortKey() string {
	last := " "
	if c.Name.LastName != nil && *c.Name.LastName != "" {
		last = *c.Name.LastName
	}
	var first string
	if c.Name.FirstName != nil {
		first = *c.Name.FirstName
	}
	return last + first + strings.Join(c.Tags, ",")
}
