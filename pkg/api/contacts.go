package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Contact удаленная запись контакта в формате сервиса
type Contact struct {
	Photo               *Photo          `json:"photo,omitempty"`
	Birthday            *string         `json:"birthday,omitempty"` // YYYY-MM-DD, год 1604 = неизвестен
	CompanyName         *string         `json:"companyName,omitempty"`
	Department          *string         `json:"department,omitempty"`
	Etag                *string         `json:"etag,omitempty"`
	FirstName           *string         `json:"firstName,omitempty"`
	IsGuardianApproved  *bool           `json:"isGuardianApproved,omitempty"`
	JobTitle            *string         `json:"jobTitle,omitempty"`
	LastName            *string         `json:"lastName,omitempty"`
	MiddleName          *string         `json:"middleName,omitempty"`
	NickName            *string         `json:"nickName,omitempty"`
	Notes               *string         `json:"notes,omitempty"`
	Normalized          *string         `json:"normalized,omitempty"`
	PhoneticCompanyName *string         `json:"phoneticCompanyName,omitempty"`
	PhoneticFirstName   *string         `json:"phoneticFirstName,omitempty"`
	PhoneticLastName    *string         `json:"phoneticLastName,omitempty"`
	Prefix              *string         `json:"prefix,omitempty"`
	Suffix              *string         `json:"suffix,omitempty"`
	Whitelisted         *bool           `json:"whitelisted,omitempty"`
	ContactID           string          `json:"contactId"`
	Dates               []LabeledDate   `json:"dates,omitempty"`
	EmailAddresses      []EmailAddress  `json:"emailAddresses,omitempty"`
	IMs                 []IM            `json:"IMs,omitempty"`
	Phones              []Phone         `json:"phones,omitempty"`
	Profiles            []Profile       `json:"profiles,omitempty"`
	RelatedNames        []RelatedName   `json:"relatedNames,omitempty"`
	StreetAddresses     []StreetAddress `json:"streetAddresses,omitempty"`
	URLs                []URL           `json:"urls,omitempty"`
	IsCompany           bool            `json:"isCompany"`
}

// LabeledDate произвольная дата с меткой
type LabeledDate struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

// EmailAddress адрес почты с меткой
type EmailAddress struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

// IMField учетная запись мессенджера
type IMField struct {
	IMService string `json:"IMService"`
	UserName  string `json:"userName"`
}

// IM мессенджер с меткой
type IM struct {
	Field IMField `json:"field"`
	Label string  `json:"label"`
}

// Phone телефон в формате +<код страны><номер>
type Phone struct {
	Label *string `json:"label,omitempty"`
	Field string  `json:"field"`
}

// Profile профиль социальной сети
type Profile struct {
	Label       *string `json:"label,omitempty"`
	DisplayName *string `json:"displayname,omitempty"`
	User        *string `json:"user,omitempty"`
	UserID      *string `json:"userId,omitempty"`
	Field       string  `json:"field"`
}

// RelatedName связанное имя
type RelatedName struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

// StreetAddressField почтовый адрес
type StreetAddressField struct {
	Country     *string `json:"country,omitempty"`
	CountryCode *string `json:"countryCode,omitempty"`
	City        *string `json:"city,omitempty"`
	PostalCode  *string `json:"postalCode,omitempty"`
	State       *string `json:"state,omitempty"`
	Street      *string `json:"street,omitempty"` // строки разделены \n
	SubLocality *string `json:"subLocality,omitempty"`
}

// StreetAddress адрес с меткой
type StreetAddress struct {
	Label string             `json:"label"`
	Field StreetAddressField `json:"field"`
}

// URL ссылка с меткой
type URL struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

// PhotoCrop область кадрирования фото
type PhotoCrop struct {
	Height int `json:"height"`
	Width  int `json:"width"`
	X      int `json:"x"`
	Y      int `json:"y"`
}

// Photo фото контакта
type Photo struct {
	Whitelisted *bool     `json:"whitelisted,omitempty"`
	Signature   string    `json:"signature"`
	URL         string    `json:"url"`
	Crop        PhotoCrop `json:"crop"`
}

// Group удаленная группа контактов
type Group struct {
	Etag               *string        `json:"etag,omitempty"`
	IsGuardianApproved *bool          `json:"isGuardianApproved,omitempty"`
	Whitelisted        *bool          `json:"whitelisted,omitempty"`
	HeaderPositions    map[string]int `json:"headerPositions,omitempty"`
	GroupID            string         `json:"groupId"`
	Name               string         `json:"name"`
	ContactIDs         []string       `json:"contactIds"`
}

// StartupResponse ответ /co/startup
type StartupResponse struct {
	PrefToken string  `json:"prefToken"`
	SyncToken string  `json:"syncToken"`
	Groups    []Group `json:"groups"`
}

// ContactsResponse ответ /co/contacts. Записи декодируются строго через DecodeContact.
type ContactsResponse struct {
	SyncToken string            `json:"syncToken,omitempty"`
	Contacts  []json.RawMessage `json:"contacts"`
}

// ContactsRequest тело /co/contacts/card
type ContactsRequest struct {
	Contacts []Contact `json:"contacts"`
}

// GroupsRequest тело /co/groups/card
type GroupsRequest struct {
	Groups []Group `json:"groups"`
}

// MutationResponse ответ на изменение карточек
type MutationResponse struct {
	SyncToken string    `json:"syncToken"`
	Contacts  []Contact `json:"contacts,omitempty"`
	Groups    []Group   `json:"groups,omitempty"`
}

// DecodeContact декодирует запись контакта, отклоняя неизвестные поля
func DecodeContact(raw []byte) (*Contact, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var c Contact
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode contact: %w", err)
	}
	return &c, nil
}
