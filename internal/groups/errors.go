package groups

import (
	"errors"
	"fmt"

	v2 "github.com/dokzlo13/huegroups/internal/hue/v2"
)

var (
	// ErrNotFound is returned when a requested group does not exist on the bridge.
	ErrNotFound = errors.New("group resource not found")

	// ErrInconsistent is returned when a group references a grouped light the
	// bridge did not return in the same aggregation.
	ErrInconsistent = errors.New("upstream data inconsistency")

	// ErrInvalidGroupType is returned for group types other than room and zone.
	ErrInvalidGroupType = errors.New("invalid group type")
)

// Error carries an error kind together with the offending group and reference.
// Use errors.Is with ErrNotFound or ErrInconsistent to tell kinds apart.
type Error struct {
	Kind    error
	GroupID string
	Ref     v2.ResourceRef
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.GroupID != "" {
		msg = fmt.Sprintf("%s: group %s", msg, e.GroupID)
	}
	if e.Ref.RID != "" {
		msg = fmt.Sprintf("%s: %s resource %s not found", msg, e.Ref.RType, e.Ref.RID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
