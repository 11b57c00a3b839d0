package groups

import (
	"github.com/rs/zerolog/log"

	v2 "github.com/dokzlo13/huegroups/internal/hue/v2"
)

// snapshot holds the indexes built from one aggregation call's fetches.
type snapshot struct {
	groupedLights map[string]v2.GroupedLight
	lights        map[string]v2.Light
	deviceLights  map[string][]string
}

// lightSet accumulates resolved lights in first-seen order, once per id.
type lightSet struct {
	index  map[string]v2.Light
	seen   map[string]struct{}
	lights []v2.Light
}

func newLightSet(index map[string]v2.Light) *lightSet {
	return &lightSet{
		index:  index,
		seen:   make(map[string]struct{}),
		lights: []v2.Light{},
	}
}

// add resolves id through the light index. It returns false if the light is unknown.
func (s *lightSet) add(id string) bool {
	light, ok := s.index[id]
	if !ok {
		return false
	}
	if _, dup := s.seen[id]; dup {
		return true
	}
	s.seen[id] = struct{}{}
	s.lights = append(s.lights, light)
	return true
}

// resolveLights picks the child resolution strategy for the group type.
func resolveLights(group v2.Group, groupType GroupType, snap *snapshot) []v2.Light {
	switch groupType {
	case Zone:
		return resolveZoneLights(group, snap.lights)
	case Room:
		return resolveRoomLights(group, snap.deviceLights, snap.lights)
	}
	return []v2.Light{}
}

// resolveZoneLights maps light children straight through the light index.
func resolveZoneLights(group v2.Group, lights map[string]v2.Light) []v2.Light {
	set := newLightSet(lights)
	for _, ref := range refsOfType(group.Children, v2.TypeLight) {
		if !set.add(ref.RID) {
			log.Debug().
				Str("group", group.ID).
				Str("light", ref.RID).
				Msg("Dropping unresolved zone light")
		}
	}
	return set.lights
}

// resolveRoomLights expands device children into their lights.
func resolveRoomLights(group v2.Group, deviceLights map[string][]string, lights map[string]v2.Light) []v2.Light {
	set := newLightSet(lights)
	for _, ref := range refsOfType(group.Children, v2.TypeDevice) {
		lightIDs, ok := deviceLights[ref.RID]
		if !ok {
			log.Debug().
				Str("group", group.ID).
				Str("device", ref.RID).
				Msg("Dropping unresolved room device")
			continue
		}
		for _, id := range lightIDs {
			if !set.add(id) {
				log.Debug().
					Str("group", group.ID).
					Str("device", ref.RID).
					Str("light", id).
					Msg("Dropping unresolved device light")
			}
		}
	}
	return set.lights
}

// resolveGroupedLightsStrict fails on the first grouped_light service that
// is missing from the index.
func resolveGroupedLightsStrict(group v2.Group, index map[string]v2.GroupedLight) ([]v2.GroupedLight, error) {
	refs := refsOfType(group.Services, v2.TypeGroupedLight)
	out := make([]v2.GroupedLight, 0, len(refs))
	for _, ref := range refs {
		gl, ok := index[ref.RID]
		if !ok {
			return nil, &Error{Kind: ErrInconsistent, GroupID: group.ID, Ref: ref}
		}
		out = append(out, gl)
	}
	return out, nil
}

// isRenderable reports whether a group has a grouped-light controller and at
// least one child of the kind its type resolves through.
func isRenderable(group v2.Group, groupType GroupType) bool {
	return hasRefOfType(group.Services, v2.TypeGroupedLight) &&
		hasRefOfType(group.Children, groupType.childType())
}
