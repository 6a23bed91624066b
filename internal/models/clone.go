package models

import "slices"

// Clone создает глубокую копию контакта
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}
	return &Contact{
		Name:            c.Name.clone(),
		ID:              clonePtr(c.ID),
		Birthday:        cloneWith(c.Birthday, (*Date).clone),
		Dated:           cloneWith(c.Dated, (*DateRange).clone),
		Education:       cloneWith(c.Education, (*Education).clone),
		EmailAddresses:  slices.Clone(c.EmailAddresses),
		Favorite:        cloneWith(c.Favorite, (*Favorite).clone),
		FriendsFriend:   clonePtr(c.FriendsFriend),
		Notes:           clonePtr(c.Notes),
		PhoneNumbers:    clonePhoneNumbers(c.PhoneNumbers),
		SocialProfiles:  cloneWith(c.SocialProfiles, (*SocialProfiles).clone),
		StreetAddresses: cloneStreetAddresses(c.StreetAddresses),
		Tags:            cloneStrings(c.Tags),
		Mtime:           clonePtr(c.Mtime),
		ICloud:          cloneWith(c.ICloud, (*ICloudMetadata).clone),
	}
}

// Clone создает глубокую копию группы
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	return &Group{
		Name: g.Name,
		ICloud: GroupICloudMetadata{
			Etag:         clonePtr(g.ICloud.Etag),
			UUID:         g.ICloud.UUID,
			ContactUUIDs: slices.Clone(g.ICloud.ContactUUIDs),
		},
	}
}

func (n Name) clone() Name {
	return Name{
		Prefix:      clonePtr(n.Prefix),
		FirstName:   clonePtr(n.FirstName),
		Nickname:    clonePtr(n.Nickname),
		MiddleName:  clonePtr(n.MiddleName),
		LastName:    clonePtr(n.LastName),
		Suffix:      clonePtr(n.Suffix),
		ChineseName: clonePtr(n.ChineseName),
	}
}

func (d *Date) clone() Date {
	return Date{Day: clonePtr(d.Day), Month: clonePtr(d.Month), Year: clonePtr(d.Year)}
}

func (r *DateRange) clone() DateRange {
	return DateRange{
		Start: cloneWith(r.Start, (*Date).clone),
		End:   cloneWith(r.End, (*Date).clone),
	}
}

func (u *University) clone() University {
	return University{
		GraduationYear: clonePtr(u.GraduationYear),
		Name:           u.Name,
		Majors:         cloneStrings(u.Majors),
		Minors:         cloneStrings(u.Minors),
	}
}

func (e *Education) clone() Education {
	return Education{
		Bachelor: cloneWith(e.Bachelor, (*University).clone),
		HighSchool: cloneWith(e.HighSchool, func(h *HighSchool) HighSchool {
			return HighSchool{GraduationYear: clonePtr(h.GraduationYear), Name: h.Name}
		}),
		Law:     cloneWith(e.Law, (*University).clone),
		Master:  cloneWith(e.Master, (*University).clone),
		Medical: cloneWith(e.Medical, (*University).clone),
		PhD:     cloneWith(e.PhD, (*University).clone),
	}
}

func (f *Favorite) clone() Favorite {
	return Favorite{Candy: clonePtr(f.Candy), Color: clonePtr(f.Color)}
}

func (s *SocialProfiles) clone() SocialProfiles {
	return SocialProfiles{
		Facebook: cloneWith(s.Facebook, func(f *FacebookProfile) FacebookProfile {
			return FacebookProfile{UserID: clonePtr(f.UserID), Username: clonePtr(f.Username)}
		}),
		GameCenter: clonePtr(s.GameCenter),
		Instagram:  clonePtr(s.Instagram),
	}
}

func (m *ICloudMetadata) clone() ICloudMetadata {
	return ICloudMetadata{
		Etag: clonePtr(m.Etag),
		Photo: cloneWith(m.Photo, func(p *Photo) Photo {
			return Photo{
				Whitelisted: clonePtr(p.Whitelisted),
				Signature:   p.Signature,
				URL:         p.URL,
				Crop:        p.Crop,
			}
		}),
		UUID: m.UUID,
	}
}

func clonePhoneNumbers(in []PhoneNumber) []PhoneNumber {
	if in == nil {
		return nil
	}
	out := make([]PhoneNumber, len(in))
	for i, p := range in {
		out[i] = PhoneNumber{Label: clonePtr(p.Label), Number: p.Number, CountryCode: p.CountryCode}
	}
	return out
}

func cloneStreetAddresses(in []StreetAddress) []StreetAddress {
	if in == nil {
		return nil
	}
	out := make([]StreetAddress, len(in))
	for i, a := range in {
		out[i] = StreetAddress{
			Country:    clonePtr(a.Country),
			City:       clonePtr(a.City),
			PostalCode: clonePtr(a.PostalCode),
			State:      clonePtr(a.State),
			Label:      a.Label,
			Street:     cloneStrings(a.Street),
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return slices.Clone(in)
}

// clonePtr копирует значение под указателем (поверхностно)
func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneWith[T any](p *T, f func(*T) T) *T {
	if p == nil {
		return nil
	}
	v := f(p)
	return &v
}
