package translator

import (
	"fmt"
	"strings"

	"github.com/iudanet/cardsync/internal/models"
	"github.com/iudanet/cardsync/pkg/api"
)

// NoYear год, которым сервис помечает дату рождения без года
const NoYear = 1604

// tagSeparator разделитель тегов в companyName
const tagSeparator = ", "

// ToInternal переводит удаленную запись в локальный контакт.
// Любое поле, которое нельзя перевести без потерь, возвращает *TranslationError.
func ToInternal(remote *api.Contact) (*models.Contact, error) {
	id := remote.ContactID
	if id == "" {
		return nil, invalid(id, "contactId", "empty contact id")
	}
	if err := checkUnsupported(remote); err != nil {
		return nil, err
	}

	c := &models.Contact{
		Name: models.Name{
			Prefix:     clone(remote.Prefix),
			FirstName:  clone(remote.FirstName),
			Nickname:   clone(remote.NickName),
			MiddleName: clone(remote.MiddleName),
			LastName:   clone(remote.LastName),
			Suffix:     clone(remote.Suffix),
		},
		ICloud: &models.ICloudMetadata{
			UUID: models.RemoteID(id),
			Etag: clone(remote.Etag),
		},
	}
	if remote.Photo != nil {
		c.ICloud.Photo = &models.Photo{
			Whitelisted: clone(remote.Photo.Whitelisted),
			Signature:   remote.Photo.Signature,
			URL:         remote.Photo.URL,
			Crop:        models.PhotoCrop(remote.Photo.Crop),
		}
	}

	if remote.Birthday != nil {
		birthday, err := decodeBirthday(*remote.Birthday)
		if err != nil {
			return nil, invalid(id, "birthday", "%v", err)
		}
		c.Birthday = birthday
	}

	if nonEmpty(remote.CompanyName) {
		c.SetTags(strings.Split(*remote.CompanyName, tagSeparator))
	}

	if remote.EmailAddresses != nil {
		emails := make([]models.EmailAddress, 0, len(remote.EmailAddresses))
		for _, e := range remote.EmailAddresses {
			if strings.Count(e.Field, "@") != 1 {
				return nil, invalid(id, "emailAddresses", "invalid email address: %s", e.Field)
			}
			emails = append(emails, models.EmailAddress{Address: e.Field, Label: e.Label})
		}
		c.SetEmailAddresses(emails)
	}

	if remote.Phones != nil {
		phones, err := decodePhones(id, remote.Phones)
		if err != nil {
			return nil, err
		}
		c.PhoneNumbers = phones
	}

	if remote.Profiles != nil {
		profiles, err := decodeProfiles(id, remote.Profiles)
		if err != nil {
			return nil, err
		}
		c.SocialProfiles = profiles
	}

	if remote.StreetAddresses != nil {
		addresses, err := decodeAddresses(id, remote.StreetAddresses)
		if err != nil {
			return nil, err
		}
		c.StreetAddresses = addresses
	}

	if nonEmpty(remote.Notes) {
		if err := decodeNotes(id, *remote.Notes, c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func checkUnsupported(remote *api.Contact) error {
	id := remote.ContactID
	checks := []struct {
		field string
		set   bool
	}{
		{"IMs", len(remote.IMs) > 0},
		{"dates", len(remote.Dates) > 0},
		{"department", nonEmpty(remote.Department)},
		{"jobTitle", nonEmpty(remote.JobTitle)},
		{"phoneticCompanyName", nonEmpty(remote.PhoneticCompanyName)},
		{"phoneticFirstName", nonEmpty(remote.PhoneticFirstName)},
		{"phoneticLastName", nonEmpty(remote.PhoneticLastName)},
		{"relatedNames", len(remote.RelatedNames) > 0},
		{"urls", len(remote.URLs) > 0},
		{"isCompany", remote.IsCompany},
	}
	for _, check := range checks {
		if check.set {
			return unsupported(id, check.field)
		}
	}
	return nil
}

// ToExternal переводит локальный контакт в удаленную запись.
// Для несвязанного контакта ContactID остается пустым.
func ToExternal(c *models.Contact) (*api.Contact, error) {
	id := c.RemoteUUID().String()
	falseValue := false

	remote := &api.Contact{
		ContactID:          id,
		IsCompany:          false,
		IsGuardianApproved: &falseValue,
		Whitelisted:        &falseValue,
		Prefix:             clone(c.Name.Prefix),
		FirstName:          clone(c.Name.FirstName),
		NickName:           clone(c.Name.Nickname),
		MiddleName:         clone(c.Name.MiddleName),
		LastName:           clone(c.Name.LastName),
		Suffix:             clone(c.Name.Suffix),
	}
	if c.ICloud != nil {
		remote.Etag = clone(c.ICloud.Etag)
		if p := c.ICloud.Photo; p != nil {
			remote.Photo = &api.Photo{
				Whitelisted: clone(p.Whitelisted),
				Signature:   p.Signature,
				URL:         p.URL,
				Crop:        api.PhotoCrop(p.Crop),
			}
		}
	}

	if c.Birthday != nil {
		birthday, err := encodeBirthday(c.Birthday)
		if err != nil {
			return nil, invalid(id, "birthday", "%v", err)
		}
		remote.Birthday = &birthday
	}

	// пустой список тегов равен отсутствию тегов: пустой companyName не передается
	if len(c.Tags) > 0 {
		company := strings.Join(c.Tags, tagSeparator)
		remote.CompanyName = &company
	}

	if c.EmailAddresses != nil {
		remote.EmailAddresses = make([]api.EmailAddress, 0, len(c.EmailAddresses))
		for _, e := range c.EmailAddresses {
			if strings.Count(e.Address, "@") != 1 {
				return nil, invalid(id, "email_addresses", "invalid email address: %s", e.Address)
			}
			remote.EmailAddresses = append(remote.EmailAddresses, api.EmailAddress{Field: e.Address, Label: e.Label})
		}
	}

	if c.PhoneNumbers != nil {
		phones, err := encodePhones(id, c.PhoneNumbers)
		if err != nil {
			return nil, err
		}
		remote.Phones = phones
	}

	if c.SocialProfiles != nil {
		remote.Profiles = encodeProfiles(c.SocialProfiles)
	}

	if c.StreetAddresses != nil {
		addresses, err := encodeAddresses(id, c.StreetAddresses)
		if err != nil {
			return nil, err
		}
		remote.StreetAddresses = addresses
	}

	if hasNotes(c) {
		notes, err := encodeNotes(c)
		if err != nil {
			return nil, &TranslationError{ContactID: id, Field: "notes", Err: err}
		}
		remote.Notes = &notes
	}

	return remote, nil
}

func decodeBirthday(s string) (*models.Date, error) {
	d, err := models.ParseDate(s)
	if err != nil {
		return nil, err
	}
	if d.Year != nil && *d.Year == NoYear {
		d.Year = nil
	}
	return &d, nil
}

func encodeBirthday(d *models.Date) (string, error) {
	if d.Month == nil || d.Day == nil {
		return "", fmt.Errorf("birthday %s requires month and day", d)
	}
	year := NoYear
	if d.Year != nil {
		year = *d.Year
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, *d.Month, *d.Day), nil
}
