package translator

import (
	"github.com/iudanet/cardsync/internal/models"
	"github.com/iudanet/cardsync/pkg/api"
)

// GroupToInternal переводит удаленную группу в локальную
func GroupToInternal(remote *api.Group) (*models.Group, error) {
	if remote.GroupID == "" {
		return nil, invalid("", "groupId", "empty group id for group %q", remote.Name)
	}
	return &models.Group{
		Name: remote.Name,
		ICloud: models.GroupICloudMetadata{
			UUID:         models.RemoteID(remote.GroupID),
			Etag:         clone(remote.Etag),
			ContactUUIDs: models.RemoteIDs(remote.ContactIDs),
		},
	}, nil
}

// GroupToExternal переводит локальную группу в удаленную запись
func GroupToExternal(g *models.Group) *api.Group {
	falseValue := false
	ids := models.Strings(g.ICloud.ContactUUIDs)
	if ids == nil {
		ids = []string{}
	}
	return &api.Group{
		GroupID:            g.ICloud.UUID.String(),
		Name:               g.Name,
		Etag:               clone(g.ICloud.Etag),
		ContactIDs:         ids,
		IsGuardianApproved: &falseValue,
		Whitelisted:        &falseValue,
	}
}
