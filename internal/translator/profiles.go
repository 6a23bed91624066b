package translator

import (
	"github.com/iudanet/cardsync/internal/models"
	"github.com/iudanet/cardsync/pkg/api"
)

const (
	facebookURL  = "http://www.facebook.com/"
	instagramURL = "http://www.instagram.com/"
)

// profileCodec кодирует и декодирует одну метку профиля.
// Обе стороны живут в одной таблице, чтобы не расходились.
type profileCodec struct {
	encode func(*models.SocialProfiles) *api.Profile
	decode func(api.Profile, *models.SocialProfiles) error
	label  string
}

var profileCodecs = []profileCodec{
	{
		label: "FACEBOOK",
		encode: func(s *models.SocialProfiles) *api.Profile {
			if s.Facebook == nil {
				return nil
			}
			var username string
			if s.Facebook.Username != nil {
				username = *s.Facebook.Username
			}
			return &api.Profile{
				Field:  facebookURL + username,
				User:   clone(s.Facebook.Username),
				UserID: clone(s.Facebook.UserID),
			}
		},
		decode: func(p api.Profile, s *models.SocialProfiles) error {
			s.Facebook = &models.FacebookProfile{
				UserID:   clone(p.UserID),
				Username: clone(p.User),
			}
			return nil
		},
	},
	{
		label: "GAMECENTER",
		encode: func(s *models.SocialProfiles) *api.Profile {
			if s.GameCenter == nil {
				return nil
			}
			return &api.Profile{
				Field: s.GameCenter.Link,
				User:  &s.GameCenter.Username,
			}
		},
		decode: func(p api.Profile, s *models.SocialProfiles) error {
			if p.User == nil {
				return ErrInvalidValue
			}
			s.GameCenter = &models.GameCenterProfile{Link: p.Field, Username: *p.User}
			return nil
		},
	},
	{
		label: "INSTAGRAM",
		encode: func(s *models.SocialProfiles) *api.Profile {
			if s.Instagram == nil {
				return nil
			}
			return &api.Profile{
				Field: instagramURL + s.Instagram.Username,
				User:  &s.Instagram.Username,
			}
		},
		decode: func(p api.Profile, s *models.SocialProfiles) error {
			if p.User == nil {
				return ErrInvalidValue
			}
			s.Instagram = &models.InstagramProfile{Username: *p.User}
			return nil
		},
	},
}

func findProfileCodec(label string) (profileCodec, bool) {
	for _, c := range profileCodecs {
		if c.label == label {
			return c, true
		}
	}
	return profileCodec{}, false
}

func decodeProfiles(id string, profiles []api.Profile) (*models.SocialProfiles, error) {
	out := &models.SocialProfiles{}
	seen := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		var label string
		if p.Label != nil {
			label = *p.Label
		}
		codec, ok := findProfileCodec(label)
		if !ok {
			return nil, invalid(id, "profiles", "unsupported social profile label: %q", label)
		}
		if seen[label] {
			return nil, invalid(id, "profiles", "duplicate social profile label: %s", label)
		}
		seen[label] = true
		if nonEmpty(p.DisplayName) {
			return nil, unsupported(id, "profiles.displayname")
		}
		if err := codec.decode(p, out); err != nil {
			return nil, invalid(id, "profiles", "%s profile has no user", label)
		}
		// field восстанавливается из остальных значений; иной field потерялся бы
		if want := codec.encode(out).Field; p.Field != want {
			return nil, invalid(id, "profiles", "%s profile field %q does not match %q", label, p.Field, want)
		}
	}
	return out, nil
}

func encodeProfiles(s *models.SocialProfiles) []api.Profile {
	out := make([]api.Profile, 0, len(profileCodecs))
	for _, codec := range profileCodecs {
		p := codec.encode(s)
		if p == nil {
			continue
		}
		label := codec.label
		p.Label = &label
		out = append(out, *p)
	}
	return out
}
