package modules

import (
	"context"
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/huegroups/internal/groups"
	v2 "github.com/dokzlo13/huegroups/internal/hue/v2"
)

// GroupReader is the aggregation surface exposed to Lua.
type GroupReader interface {
	ListGroups(ctx context.Context, groupType groups.GroupType) ([]groups.CombinedGroup, error)
	GetGroup(ctx context.Context, id string, groupType groups.GroupType) (*groups.CombinedGroup, error)
}

// GroupsModule exposes aggregated rooms and zones to Lua
type GroupsModule struct {
	reader GroupReader
}

// NewGroupsModule creates a new groups module
func NewGroupsModule(reader GroupReader) *GroupsModule {
	return &GroupsModule{reader: reader}
}

// Loader is the module loader for Lua
func (m *GroupsModule) Loader(L *lua.LState) int {
	mod := L.NewTable()

	L.SetField(mod, "list", L.NewFunction(m.list))
	L.SetField(mod, "get", L.NewFunction(m.get))
	L.SetField(mod, "ROOM", lua.LString(groups.Room))
	L.SetField(mod, "ZONE", lua.LString(groups.Zone))

	L.Push(mod)
	return 1
}

// list returns all renderable groups of a type; failures raise a Lua error.
// groups.list("room"|"zone") -> array of group tables
func (m *GroupsModule) list(L *lua.LState) int {
	groupType, err := groups.ParseGroupType(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}

	result, err := m.reader.ListGroups(stateContext(L), groupType)
	if err != nil {
		L.RaiseError("groups.list: %s", err.Error())
		return 0
	}

	tbl := L.NewTable()
	for _, g := range result {
		tbl.Append(groupToLua(L, g))
	}
	L.Push(tbl)
	return 1
}

// get returns a single group.
// groups.get(id, "room"|"zone") -> group | nil, message, kind
func (m *GroupsModule) get(L *lua.LState) int {
	id := L.CheckString(1)
	groupType, err := groups.ParseGroupType(L.CheckString(2))
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}

	g, err := m.reader.GetGroup(stateContext(L), id, groupType)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		L.Push(lua.LString(errorKind(err)))
		return 3
	}

	L.Push(groupToLua(L, *g))
	return 1
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, groups.ErrNotFound):
		return "not_found"
	case errors.Is(err, groups.ErrInconsistent):
		return "inconsistent"
	}
	return "error"
}

func groupToLua(L *lua.LState, g groups.CombinedGroup) lua.LValue {
	lights := make([]any, 0, len(g.Lights))
	for _, l := range g.Lights {
		lights = append(lights, map[string]any{
			"id":         l.ID,
			"name":       l.Metadata.Name,
			"on":         isOn(l.On),
			"brightness": brightness(l.Dimming),
		})
	}

	groupedLights := make([]any, 0, len(g.GroupedLights))
	for _, gl := range g.GroupedLights {
		groupedLights = append(groupedLights, map[string]any{
			"id":         gl.ID,
			"on":         isOn(gl.On),
			"brightness": brightness(gl.Dimming),
		})
	}

	return GoToLuaValue(L, map[string]any{
		"id":             g.ID,
		"id_v1":          g.IDV1,
		"type":           string(g.Type),
		"name":           g.Metadata.Name,
		"lights":         lights,
		"grouped_lights": groupedLights,
	})
}

func isOn(s *v2.OnState) bool {
	return s != nil && s.On
}

func brightness(d *v2.Dimming) float64 {
	if d == nil {
		return 0
	}
	return d.Brightness
}
