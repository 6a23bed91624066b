package models

// Patch переносит в контакт все заданные поля p.
// Правила: nil в p никогда не затирает значение, nil в c принимает значение p,
// вложенные структуры сливаются рекурсивно, скаляры и списки заменяются целиком.
func (c *Contact) Patch(p *Contact) {
	if p == nil {
		return
	}
	c.Name.Patch(&p.Name)
	patchValue(&c.ID, p.ID)
	patchStruct(&c.Birthday, p.Birthday, (*Date).Patch)
	patchStruct(&c.Dated, p.Dated, (*DateRange).Patch)
	patchStruct(&c.Education, p.Education, (*Education).Patch)
	if p.EmailAddresses != nil {
		c.SetEmailAddresses(p.EmailAddresses)
	}
	patchStruct(&c.Favorite, p.Favorite, (*Favorite).Patch)
	patchStruct(&c.FriendsFriend, p.FriendsFriend, (*FriendsFriend).Patch)
	patchValue(&c.Notes, p.Notes)
	if p.PhoneNumbers != nil {
		c.PhoneNumbers = clonePhoneNumbers(p.PhoneNumbers)
	}
	patchStruct(&c.SocialProfiles, p.SocialProfiles, (*SocialProfiles).Patch)
	if p.StreetAddresses != nil {
		c.StreetAddresses = cloneStreetAddresses(p.StreetAddresses)
	}
	if p.Tags != nil {
		c.SetTags(p.Tags)
	}
	patchValue(&c.Mtime, p.Mtime)
	patchStruct(&c.ICloud, p.ICloud, (*ICloudMetadata).Patch)
}

// Patch сливает имя
func (n *Name) Patch(p *Name) {
	patchValue(&n.Prefix, p.Prefix)
	patchValue(&n.FirstName, p.FirstName)
	patchValue(&n.Nickname, p.Nickname)
	patchValue(&n.MiddleName, p.MiddleName)
	patchValue(&n.LastName, p.LastName)
	patchValue(&n.Suffix, p.Suffix)
	patchValue(&n.ChineseName, p.ChineseName)
}

// Patch сливает дату по частям
func (d *Date) Patch(p *Date) {
	patchValue(&d.Day, p.Day)
	patchValue(&d.Month, p.Month)
	patchValue(&d.Year, p.Year)
}

// Patch сливает промежуток дат
func (r *DateRange) Patch(p *DateRange) {
	patchStruct(&r.Start, p.Start, (*Date).Patch)
	patchStruct(&r.End, p.End, (*Date).Patch)
}

// Patch сливает образование
func (e *Education) Patch(p *Education) {
	patchStruct(&e.Bachelor, p.Bachelor, (*University).Patch)
	patchStruct(&e.HighSchool, p.HighSchool, (*HighSchool).Patch)
	patchStruct(&e.Law, p.Law, (*University).Patch)
	patchStruct(&e.Master, p.Master, (*University).Patch)
	patchStruct(&e.Medical, p.Medical, (*University).Patch)
	patchStruct(&e.PhD, p.PhD, (*University).Patch)
}

// Patch сливает запись университета
func (u *University) Patch(p *University) {
	patchValue(&u.GraduationYear, p.GraduationYear)
	u.Name = p.Name
	if p.Majors != nil {
		u.Majors = cloneStrings(p.Majors)
	}
	if p.Minors != nil {
		u.Minors = cloneStrings(p.Minors)
	}
}

// Patch сливает запись школы
func (h *HighSchool) Patch(p *HighSchool) {
	patchValue(&h.GraduationYear, p.GraduationYear)
	h.Name = p.Name
}

// Patch сливает любимые вещи
func (f *Favorite) Patch(p *Favorite) {
	patchValue(&f.Candy, p.Candy)
	patchValue(&f.Color, p.Color)
}

// Patch сливает запись общего знакомого
func (f *FriendsFriend) Patch(p *FriendsFriend) {
	f.Name = p.Name
	f.UUID = p.UUID
}

// Patch сливает профили социальных сетей
func (s *SocialProfiles) Patch(p *SocialProfiles) {
	patchStruct(&s.Facebook, p.Facebook, (*FacebookProfile).Patch)
	patchStruct(&s.GameCenter, p.GameCenter, (*GameCenterProfile).Patch)
	patchStruct(&s.Instagram, p.Instagram, (*InstagramProfile).Patch)
}

// Patch сливает профиль Facebook
func (f *FacebookProfile) Patch(p *FacebookProfile) {
	patchValue(&f.UserID, p.UserID)
	patchValue(&f.Username, p.Username)
}

// Patch сливает профиль Game Center
func (g *GameCenterProfile) Patch(p *GameCenterProfile) {
	g.Link = p.Link
	g.Username = p.Username
}

// Patch сливает профиль Instagram
func (i *InstagramProfile) Patch(p *InstagramProfile) {
	i.Username = p.Username
}

// Patch сливает связь с удаленной записью
func (m *ICloudMetadata) Patch(p *ICloudMetadata) {
	patchValue(&m.Etag, p.Etag)
	patchStruct(&m.Photo, p.Photo, (*Photo).Patch)
	m.UUID = p.UUID
}

// Patch сливает фото
func (ph *Photo) Patch(p *Photo) {
	patchValue(&ph.Whitelisted, p.Whitelisted)
	ph.Signature = p.Signature
	ph.URL = p.URL
	ph.Crop = p.Crop
}

// patchValue заменяет скаляр, если в патче он задан
func patchValue[T any](dst **T, src *T) {
	if src == nil {
		return
	}
	v := *src
	*dst = &v
}

// patchStruct сливает вложенную структуру: nil в dst получает копию src,
// иначе вызывается merge
func patchStruct[T any](dst **T, src *T, merge func(*T, *T)) {
	if src == nil {
		return
	}
	if *dst == nil {
		var zero T
		merge(&zero, src)
		*dst = &zero
		return
	}
	merge(*dst, src)
}
