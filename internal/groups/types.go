package groups

import (
	"fmt"

	v2 "github.com/dokzlo13/huegroups/internal/hue/v2"
)

// GroupType selects which bridge grouping to aggregate.
type GroupType string

const (
	// Room children reference devices, which expand into lights.
	Room GroupType = "room"
	// Zone children reference lights directly.
	Zone GroupType = "zone"
)

// ParseGroupType converts a user-supplied string into a GroupType.
func ParseGroupType(s string) (GroupType, error) {
	t := GroupType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate reports whether t is a known group type.
func (t GroupType) Validate() error {
	switch t {
	case Room, Zone:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidGroupType, string(t))
}

func (t GroupType) resourceType() v2.ResourceType {
	if t == Zone {
		return v2.TypeZone
	}
	return v2.TypeRoom
}

// childType is the kind a group's children must have to be resolvable.
func (t GroupType) childType() v2.ResourceType {
	if t == Zone {
		return v2.TypeLight
	}
	return v2.TypeDevice
}

// Metadata is the user-facing part of a combined group
type Metadata struct {
	Name string `json:"name"`
}

// CombinedGroup is a room or zone with its lights and grouped-light
// controllers resolved. It is built per call and never cached.
type CombinedGroup struct {
	ID            string            `json:"id"`
	IDV1          string            `json:"id_v1,omitempty"`
	Type          v2.ResourceType   `json:"type"`
	Metadata      Metadata          `json:"metadata"`
	Lights        []v2.Light        `json:"lights"`
	GroupedLights []v2.GroupedLight `json:"grouped_lights"`
}

func combine(group v2.Group, lights []v2.Light, groupedLights []v2.GroupedLight) CombinedGroup {
	if lights == nil {
		lights = []v2.Light{}
	}
	if groupedLights == nil {
		groupedLights = []v2.GroupedLight{}
	}
	return CombinedGroup{
		ID:            group.ID,
		IDV1:          group.IDV1,
		Type:          group.Type,
		Metadata:      Metadata{Name: group.Metadata.Name},
		Lights:        lights,
		GroupedLights: groupedLights,
	}
}
