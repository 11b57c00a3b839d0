package groups

import (
	v2 "github.com/dokzlo13/huegroups/internal/hue/v2"
)

// indexByID builds an id-keyed lookup over a fetched collection.
// Later duplicates overwrite earlier ones.
func indexByID[T any](items []T, idOf func(T) string) map[string]T {
	index := make(map[string]T, len(items))
	for _, item := range items {
		index[idOf(item)] = item
	}
	return index
}

func lightID(l v2.Light) string               { return l.ID }
func groupedLightID(g v2.GroupedLight) string { return g.ID }

// deviceLightIndex maps each device id to the light ids its services expose.
func deviceLightIndex(devices []v2.Device) map[string][]string {
	index := make(map[string][]string, len(devices))
	for _, device := range devices {
		lights := make([]string, 0, 1)
		for _, ref := range refsOfType(device.Services, v2.TypeLight) {
			lights = append(lights, ref.RID)
		}
		index[device.ID] = lights
	}
	return index
}

func refsOfType(refs []v2.ResourceRef, t v2.ResourceType) []v2.ResourceRef {
	var out []v2.ResourceRef
	for _, ref := range refs {
		if ref.RType == t {
			out = append(out, ref)
		}
	}
	return out
}

func hasRefOfType(refs []v2.ResourceRef, t v2.ResourceType) bool {
	for _, ref := range refs {
		if ref.RType == t {
			return true
		}
	}
	return false
}
