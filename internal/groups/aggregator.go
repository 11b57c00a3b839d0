// Package groups rebuilds Hue rooms and zones from the bridge's flat CLIP v2
// collections.
//
// Rooms resolve room -> device -> light, zones resolve zone -> light. Every
// call fetches a fresh snapshot; nothing is cached between calls.
package groups

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	v2 "github.com/dokzlo13/huegroups/internal/hue/v2"
)

// Aggregator joins groups, devices, lights and grouped lights into CombinedGroups.
type Aggregator struct {
	client v2.ResourceClient
}

// NewAggregator creates an Aggregator reading through client.
func NewAggregator(client v2.ResourceClient) *Aggregator {
	return &Aggregator{client: client}
}

// ListGroups returns every renderable group of the given type in bridge order.
//
// Groups without a grouped_light service or without children of the
// type-appropriate kind are skipped. A grouped_light service that does not
// resolve fails the whole call with ErrInconsistent.
func (a *Aggregator) ListGroups(ctx context.Context, groupType GroupType) ([]CombinedGroup, error) {
	if err := groupType.Validate(); err != nil {
		return nil, err
	}

	groups, err := fetchData[v2.Group](ctx, a.client, v2.CollectionPath(groupType.resourceType()))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s groups: %w", groupType, err)
	}
	if len(groups) == 0 {
		return []CombinedGroup{}, nil
	}

	snap := &snapshot{}
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		groupedLights, err := fetchData[v2.GroupedLight](gctx, a.client, v2.CollectionPath(v2.TypeGroupedLight))
		if err != nil {
			return fmt.Errorf("failed to fetch grouped lights: %w", err)
		}
		snap.groupedLights = indexByID(groupedLights, groupedLightID)
		return nil
	})
	a.goFetchMembers(gctx, eg, groupType, snap)
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := make([]CombinedGroup, 0, len(groups))
	for _, group := range groups {
		if !isRenderable(group, groupType) {
			log.Debug().
				Str("group_type", string(groupType)).
				Str("group", group.ID).
				Msg("Skipping group without grouped light or children")
			continue
		}

		groupedLights, err := resolveGroupedLightsStrict(group, snap.groupedLights)
		if err != nil {
			log.Warn().
				Err(err).
				Str("group_type", string(groupType)).
				Str("group", group.ID).
				Msg("Group references unknown grouped light")
			return nil, err
		}

		result = append(result, combine(group, resolveLights(group, groupType, snap), groupedLights))
	}

	log.Debug().
		Str("group_type", string(groupType)).
		Int("fetched", len(groups)).
		Int("count", len(result)).
		Msg("Groups aggregated")

	return result, nil
}

// GetGroup returns a single group by id.
//
// Unlike ListGroups it does not filter: a group without lights comes back
// with an empty light list, and grouped_light services that do not resolve
// are dropped rather than failing the call.
func (a *Aggregator) GetGroup(ctx context.Context, id string, groupType GroupType) (*CombinedGroup, error) {
	if err := groupType.Validate(); err != nil {
		return nil, err
	}

	groups, err := fetchData[v2.Group](ctx, a.client, v2.ResourcePath(groupType.resourceType(), id))
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, &Error{Kind: ErrNotFound, GroupID: id, Err: err}
		}
		return nil, fmt.Errorf("failed to fetch %s %s: %w", groupType, id, err)
	}
	if len(groups) == 0 {
		return nil, &Error{Kind: ErrNotFound, GroupID: id}
	}
	group := groups[0]

	refs := refsOfType(group.Services, v2.TypeGroupedLight)
	found := make([]*v2.GroupedLight, len(refs))

	snap := &snapshot{}
	eg, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		eg.Go(func() error {
			gl, err := a.fetchGroupedLight(gctx, ref.RID)
			if err != nil {
				return err
			}
			found[i] = gl
			return nil
		})
	}
	a.goFetchMembers(gctx, eg, groupType, snap)
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	groupedLights := make([]v2.GroupedLight, 0, len(found))
	for i, gl := range found {
		if gl == nil {
			log.Warn().
				Str("group_type", string(groupType)).
				Str("group", group.ID).
				Str("grouped_light", refs[i].RID).
				Msg("Dropping unresolved grouped light")
			continue
		}
		groupedLights = append(groupedLights, *gl)
	}

	combined := combine(group, resolveLights(group, groupType, snap), groupedLights)
	return &combined, nil
}

// goFetchMembers schedules the light fetch, plus the device fetch for rooms.
// Zones get an empty device index.
func (a *Aggregator) goFetchMembers(ctx context.Context, eg *errgroup.Group, groupType GroupType, snap *snapshot) {
	eg.Go(func() error {
		lights, err := fetchData[v2.Light](ctx, a.client, v2.CollectionPath(v2.TypeLight))
		if err != nil {
			return fmt.Errorf("failed to fetch lights: %w", err)
		}
		snap.lights = indexByID(lights, lightID)
		return nil
	})

	if groupType != Room {
		snap.deviceLights = map[string][]string{}
		return
	}

	eg.Go(func() error {
		devices, err := fetchData[v2.Device](ctx, a.client, v2.CollectionPath(v2.TypeDevice))
		if err != nil {
			return fmt.Errorf("failed to fetch devices: %w", err)
		}
		snap.deviceLights = deviceLightIndex(devices)
		return nil
	})
}

// fetchGroupedLight returns nil when the bridge has no such grouped light.
func (a *Aggregator) fetchGroupedLight(ctx context.Context, id string) (*v2.GroupedLight, error) {
	data, err := fetchData[v2.GroupedLight](ctx, a.client, v2.ResourcePath(v2.TypeGroupedLight, id))
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch grouped light %s: %w", id, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &data[0], nil
}

// fetchData fetches an envelope and returns its data. Envelope errors are
// logged only; callers decide on emptiness.
func fetchData[T any](ctx context.Context, rc v2.ResourceClient, path string) ([]T, error) {
	env, err := v2.Fetch[T](ctx, rc, path)
	if err != nil {
		return nil, err
	}
	for _, e := range env.Errors {
		log.Debug().Str("path", path).Str("description", e.Description).Msg("Hue reported error")
	}
	return env.Data, nil
}

func isStatus(err error, code int) bool {
	var statusErr *v2.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}
