package lua

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/huegroups/internal/groups"
	v2 "github.com/dokzlo13/huegroups/internal/hue/v2"
)

type fakeReader struct {
	rooms []groups.CombinedGroup
	err   error
}

func (f *fakeReader) ListGroups(ctx context.Context, groupType groups.GroupType) ([]groups.CombinedGroup, error) {
	if f.err != nil {
		return nil, f.err
	}
	if groupType == groups.Room {
		return f.rooms, nil
	}
	return []groups.CombinedGroup{}, nil
}

func (f *fakeReader) GetGroup(ctx context.Context, id string, groupType groups.GroupType) (*groups.CombinedGroup, error) {
	for i := range f.rooms {
		if f.rooms[i].ID == id && groupType == groups.Room {
			return &f.rooms[i], nil
		}
	}
	return nil, &groups.Error{Kind: groups.ErrNotFound, GroupID: id}
}

func kitchen() groups.CombinedGroup {
	l := v2.Light{ID: "L1", On: &v2.OnState{On: true}, Dimming: &v2.Dimming{Brightness: 42}}
	l.Metadata.Name = "Ceiling"
	return groups.CombinedGroup{
		ID:            "r1",
		IDV1:          "/groups/1",
		Type:          v2.TypeRoom,
		Metadata:      groups.Metadata{Name: "Kitchen"},
		Lights:        []v2.Light{l},
		GroupedLights: []v2.GroupedLight{{ID: "GL1", On: &v2.OnState{On: true}}},
	}
}

func TestRuntime_GroupsList(t *testing.T) {
	rt := NewRuntime(&fakeReader{rooms: []groups.CombinedGroup{kitchen()}})
	defer rt.Close()

	err := rt.RunString(context.Background(), `
		local groups = require("groups")
		local rooms = groups.list(groups.ROOM)
		count = #rooms
		name = rooms[1].name
		light_name = rooms[1].lights[1].name
		light_on = rooms[1].lights[1].on
		brightness = rooms[1].lights[1].brightness
		grouped = rooms[1].grouped_lights[1].id
		zones = #groups.list("zone")
	`)
	require.NoError(t, err)

	assert.Equal(t, float64(1), rt.Global("count"))
	assert.Equal(t, "Kitchen", rt.Global("name"))
	assert.Equal(t, "Ceiling", rt.Global("light_name"))
	assert.Equal(t, true, rt.Global("light_on"))
	assert.Equal(t, float64(42), rt.Global("brightness"))
	assert.Equal(t, "GL1", rt.Global("grouped"))
	assert.Equal(t, float64(0), rt.Global("zones"))
}

func TestRuntime_GroupsGet(t *testing.T) {
	rt := NewRuntime(&fakeReader{rooms: []groups.CombinedGroup{kitchen()}})
	defer rt.Close()

	err := rt.RunString(context.Background(), `
		local groups = require("groups")
		local room = groups.get("r1", "room")
		found = room.id_v1
		local missing, msg, kind = groups.get("nope", "room")
		missing_is_nil = missing == nil
		missing_kind = kind
		missing_msg = msg
	`)
	require.NoError(t, err)

	assert.Equal(t, "/groups/1", rt.Global("found"))
	assert.Equal(t, true, rt.Global("missing_is_nil"))
	assert.Equal(t, "not_found", rt.Global("missing_kind"))
	assert.Contains(t, rt.Global("missing_msg"), "nope")
}

func TestRuntime_ListErrorRaises(t *testing.T) {
	rt := NewRuntime(&fakeReader{err: &groups.Error{Kind: groups.ErrInconsistent, GroupID: "r9"}})
	defer rt.Close()

	err := rt.RunString(context.Background(), `require("groups").list("room")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream data inconsistency")

	err = rt.RunString(context.Background(), `require("groups").list("entertainment")`)
	assert.Error(t, err)
}

func TestRuntime_RunFileWithLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.lua")
	require.NoError(t, os.WriteFile(path, []byte(`
		local log = require("log")
		local groups = require("groups")
		for _, room in ipairs(groups.list("room")) do
			log.info("room", { id = room.id, lights = #room.lights })
		end
		done = true
	`), 0o600))

	rt := NewRuntime(&fakeReader{rooms: []groups.CombinedGroup{kitchen()}})
	defer rt.Close()

	require.NoError(t, rt.RunFile(context.Background(), path))
	assert.Equal(t, true, rt.Global("done"))
}

func TestRuntime_Closed(t *testing.T) {
	rt := NewRuntime(&fakeReader{})
	rt.Close()
	rt.Close()

	assert.ErrorIs(t, rt.RunString(context.Background(), `x = 1`), ErrRuntimeClosed)
}
