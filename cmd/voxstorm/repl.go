package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/voxstorm/internal/config"
	"github.com/dshills/voxstorm/internal/engine/scenegraph"
	"github.com/dshills/voxstorm/internal/engine/session"
	"github.com/dshills/voxstorm/internal/engine/voxel"
	"github.com/dshills/voxstorm/internal/script"
)

const replHelp = `commands:
  new <name> <edge>            create a model node with a cubic volume
  group <name>                 create a group node
  remove <id>                  remove a node
  rename <id> <name>           rename a node
  move <id> <parent>           re-parent a node
  set <id> <x> <y> <z> <color> set one voxel
  fill <id> <x1> <y1> <z1> <x2> <y2> <z2> <color>
  prop <id> <key> <value>      set a node property
  undo / redo                  step through history
  script <file>                run a lua edit script as one undo group
  mementoinfo                  dump the history log
  nodes                        list scene nodes
  help                         show this help
  quit                         leave the shell`

func newReplCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "interactive editing shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			sess, err := newSession(cfg)
			if err != nil {
				return err
			}
			stopWatch := watchConfig(*configPath)
			defer stopWatch()
			runRepl(sess)
			return nil
		},
	}
}

func runRepl(sess *session.Session) {
	engine := script.NewEngine(sess, nil)
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("voxstorm shell; 'help' lists commands")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}
		if err := dispatch(sess, engine, fields); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func dispatch(sess *session.Session, engine *script.Engine, fields []string) error {
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "help":
		fmt.Println(replHelp)
	case "new":
		if len(args) != 2 {
			return fmt.Errorf("usage: new <name> <edge>")
		}
		edge, err := strconv.Atoi(args[1])
		if err != nil || edge <= 0 {
			return fmt.Errorf("bad edge %q", args[1])
		}
		id, err := sess.NewModelNode(args[0], voxel.CubeRegion(int32(edge)), scenegraph.RootNodeID)
		if err != nil {
			return err
		}
		fmt.Println("node", id)
	case "group":
		if len(args) != 1 {
			return fmt.Errorf("usage: group <name>")
		}
		id, err := sess.NewGroupNode(args[0], scenegraph.RootNodeID)
		if err != nil {
			return err
		}
		fmt.Println("node", id)
	case "remove":
		id, err := nodeArg(args, 0)
		if err != nil {
			return err
		}
		return sess.RemoveNode(id)
	case "rename":
		id, err := nodeArg(args, 0)
		if err != nil {
			return err
		}
		if len(args) != 2 {
			return fmt.Errorf("usage: rename <id> <name>")
		}
		return sess.RenameNode(id, args[1])
	case "move":
		id, err := nodeArg(args, 0)
		if err != nil {
			return err
		}
		parent, err := nodeArg(args, 1)
		if err != nil {
			return err
		}
		return sess.MoveNode(id, parent)
	case "set":
		if len(args) != 5 {
			return fmt.Errorf("usage: set <id> <x> <y> <z> <color>")
		}
		id, err := nodeArg(args, 0)
		if err != nil {
			return err
		}
		nums, err := intArgs(args[1:])
		if err != nil {
			return err
		}
		p := voxel.IVec3{X: int32(nums[0]), Y: int32(nums[1]), Z: int32(nums[2])}
		return sess.SetVoxel(id, p, voxel.Voxel{Color: uint8(nums[3])})
	case "fill":
		if len(args) != 8 {
			return fmt.Errorf("usage: fill <id> <x1> <y1> <z1> <x2> <y2> <z2> <color>")
		}
		id, err := nodeArg(args, 0)
		if err != nil {
			return err
		}
		nums, err := intArgs(args[1:])
		if err != nil {
			return err
		}
		region := voxel.NewRegion(
			voxel.IVec3{X: int32(nums[0]), Y: int32(nums[1]), Z: int32(nums[2])},
			voxel.IVec3{X: int32(nums[3]), Y: int32(nums[4]), Z: int32(nums[5])},
		)
		return sess.Fill(id, region, voxel.Voxel{Color: uint8(nums[6])})
	case "prop":
		if len(args) != 3 {
			return fmt.Errorf("usage: prop <id> <key> <value>")
		}
		id, err := nodeArg(args, 0)
		if err != nil {
			return err
		}
		return sess.SetProperty(id, args[1], args[2])
	case "undo":
		if !sess.Undo() {
			fmt.Println("nothing to undo")
		}
	case "redo":
		if !sess.Redo() {
			fmt.Println("nothing to redo")
		}
	case "script":
		if len(args) != 1 {
			return fmt.Errorf("usage: script <file>")
		}
		return engine.RunFile(args[0])
	case "mementoinfo":
		fmt.Print(sess.History().Dump())
	case "nodes":
		printNodes(sess.Graph(), scenegraph.RootNodeID, 0)
	default:
		return fmt.Errorf("unknown command %q; try 'help'", cmd)
	}
	return nil
}

func printNodes(g *scenegraph.SceneGraph, id scenegraph.NodeID, depth int) {
	node, ok := g.Node(id)
	if !ok {
		return
	}
	fmt.Printf("%s%d: %s (%s)\n", strings.Repeat("  ", depth), node.ID(), node.Name(), node.Type())
	for _, child := range node.Children() {
		printNodes(g, child, depth+1)
	}
}

func nodeArg(args []string, i int) (scenegraph.NodeID, error) {
	if i >= len(args) {
		return scenegraph.InvalidNodeID, fmt.Errorf("missing node id")
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return scenegraph.InvalidNodeID, fmt.Errorf("bad node id %q", args[i])
	}
	return scenegraph.NodeID(n), nil
}

func intArgs(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", a)
		}
		out[i] = n
	}
	return out, nil
}
