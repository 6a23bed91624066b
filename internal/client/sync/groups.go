package sync

import (
	"context"
	"fmt"
	"slices"

	"github.com/iudanet/cardsync/internal/config"
	"github.com/iudanet/cardsync/internal/models"
	"github.com/iudanet/cardsync/internal/translator"
)

// GroupsResult итог sync-groups
type GroupsResult struct {
	Created []string
	Updated []string
	Skipped []string
}

// SyncGroups пересчитывает состав удаленных групп по правилам конфигурации.
// Вызовы к серверу разнесены во времени лимитером менеджера.
func (s *Service) SyncGroups(ctx context.Context) (*GroupsResult, error) {
	if len(s.groups) == 0 {
		s.io.Println("No group rules configured")
		return &GroupsResult{}, nil
	}

	local, err := s.local.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load local contacts: %w", err)
	}
	_, remoteGroups, err := s.manager.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote groups: %w", err)
	}
	groups, err := translator.GroupsToInternal(remoteGroups)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*models.Group, len(groups))
	for i := range groups {
		byName[groups[i].Name] = &groups[i]
	}

	res := &GroupsResult{}
	var created, updated []*models.Group
	for _, rule := range s.groups {
		members := members(local, rule)
		g, ok := byName[rule.Name]
		if !ok {
			created = append(created, &models.Group{
				Name: rule.Name,
				ICloud: models.GroupICloudMetadata{
					UUID:         models.NewRemoteID(),
					ContactUUIDs: members,
				},
			})
			continue
		}
		if g.HasSameMembers(members) {
			s.io.Printf("Skipping iCloud group %s\n", rule.Name)
			res.Skipped = append(res.Skipped, rule.Name)
			continue
		}
		g.ICloud.ContactUUIDs = members
		updated = append(updated, g)
	}

	for _, g := range created {
		if _, err := s.manager.CreateGroup(ctx, *translator.GroupToExternal(g)); err != nil {
			return nil, fmt.Errorf("failed to create group %s: %w", g.Name, err)
		}
		s.io.Printf("Created group %s with %d contact(s)\n", g.Name, len(g.ICloud.ContactUUIDs))
		res.Created = append(res.Created, g.Name)
	}
	for _, g := range updated {
		if _, err := s.manager.UpdateGroup(ctx, *translator.GroupToExternal(g)); err != nil {
			return nil, fmt.Errorf("failed to update group %s: %w", g.Name, err)
		}
		s.io.Printf("Updated group %s with %d contact(s)\n", g.Name, len(g.ICloud.ContactUUIDs))
		res.Updated = append(res.Updated, g.Name)
	}

	s.logger.Info("Group sync completed",
		"created", len(res.Created),
		"updated", len(res.Updated),
		"skipped", len(res.Skipped))
	return res, nil
}

// members возвращает связанные контакты, подходящие под правило
func members(contacts []models.Contact, rule config.GroupRule) []models.RemoteID {
	var ids []models.RemoteID
	for i := range contacts {
		c := &contacts[i]
		if c.RemoteUUID().IsZero() || !matches(c, rule) {
			continue
		}
		ids = append(ids, c.RemoteUUID())
	}
	return ids
}

func matches(c *models.Contact, rule config.GroupRule) bool {
	if rule.HasPhone {
		return len(c.PhoneNumbers) > 0
	}
	return slices.Contains(c.Tags, rule.Tag)
}
