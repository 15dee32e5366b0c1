package builder

import (
	"fmt"

	"racing-sim/internal/common"
)

// CommandKind names one editing action.
type CommandKind int

const (
	CmdAdd CommandKind = iota
	CmdRemoveLast
	CmdRemove
	CmdDrag
	CmdClose
	CmdOpen
	CmdReset
)

var commandNames = map[CommandKind]string{
	CmdAdd:        "add",
	CmdRemoveLast: "remove-last",
	CmdRemove:     "remove",
	CmdDrag:       "drag",
	CmdClose:      "close",
	CmdOpen:       "open",
	CmdReset:      "reset",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(k))
}

// Command is one input event translated into an editing action. Point is
// used by add and drag, Index by remove and drag, Role by drag.
type Command struct {
	Kind  CommandKind
	Point common.Vec2
	Index int
	Role  Role
}

// Add, Drag and the rest build commands for the input layer.
func Add(p common.Vec2) Command { return Command{Kind: CmdAdd, Point: p} }

func Drag(i int, role Role, p common.Vec2) Command {
	return Command{Kind: CmdDrag, Index: i, Role: role, Point: p}
}

func Remove(i int) Command { return Command{Kind: CmdRemove, Index: i} }

// Apply runs cmd against the builder.
func (b *Builder) Apply(cmd Command) error {
	switch cmd.Kind {
	case CmdAdd:
		return b.AddWaypoint(cmd.Point)
	case CmdRemoveLast:
		return b.RemoveLastWaypoint()
	case CmdRemove:
		return b.RemoveWaypoint(cmd.Index)
	case CmdDrag:
		return b.DragHandle(cmd.Index, cmd.Role, cmd.Point)
	case CmdClose:
		return b.Close()
	case CmdOpen:
		return b.Open()
	case CmdReset:
		b.Reset()
		return nil
	}
	return fmt.Errorf("unknown builder command %v", cmd.Kind)
}
