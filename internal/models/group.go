package models

// GroupICloudMetadata связь группы с удаленной записью
type GroupICloudMetadata struct {
	Etag         *string    `json:"etag,omitempty"`
	UUID         RemoteID   `json:"uuid"`
	ContactUUIDs []RemoteID `json:"contact_uuids"`
}

// Group группа контактов
type Group struct {
	Name   string              `json:"name"`
	ICloud GroupICloudMetadata `json:"icloud"`
}

// HasSameMembers сравнивает состав группы без учета порядка и повторов
func (g *Group) HasSameMembers(ids []RemoteID) bool {
	current := make(map[RemoteID]struct{}, len(g.ICloud.ContactUUIDs))
	for _, id := range g.ICloud.ContactUUIDs {
		current[id] = struct{}{}
	}
	wanted := make(map[RemoteID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	if len(current) != len(wanted) {
		return false
	}
	for id := range wanted {
		if _, ok := current[id]; !ok {
			return false
		}
	}
	return true
}
