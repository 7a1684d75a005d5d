// urdfpreview assembles robot descriptions into a scene and prints the
// result. It runs the same viewer core as an interactive preview, backed
// by the in-memory engine.
package main

import (
	"fmt"
	"os"

	"github.com/Faultbox/urdf-preview/internal/config"
	"github.com/Faultbox/urdf-preview/internal/logger"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	rest := args[1:]

	switch command {
	case "info":
		err = cmdInfo(cfg, rest)
	case "tree":
		err = cmdTree(cfg, rest)
	case "snapshot", "snap":
		err = cmdSnapshot(cfg, rest)
	case "watch":
		err = cmdWatch(cfg, rest)
	case "restore":
		err = cmdRestore(cfg, rest)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`urdfpreview - robot description preview

Usage:
  urdfpreview [global options] <command> [options] <file.urdf>

Commands:
  info <file>                         Show links, joints and materials
  tree <file>                         Show the joint hierarchy
  snapshot [options] <file>           Build the scene and print it
      -highlight id | -at line:col    Highlight a link by name or by cursor position
      -set joint=value                Move a joint control (repeatable)
      -orbit dx,dy  -zoom d           Drag and scroll the camera
  watch <file>                        Rebuild the scene whenever the file is saved
  restore                             Rebuild the scene from the saved state

Global options:
  -config <file>     Config file
  -debug             Debug logging
  -workspace <dir>   Root that package:// paths resolve against
  -state <file>      Persist the last loaded model
  -loads <n>         Maximum concurrent mesh loads

Examples:
  urdfpreview info arm.urdf
  urdfpreview snapshot -set shoulder=0.5 -highlight upper_arm arm.urdf
  urdfpreview -workspace ~/catkin_ws/src watch arm.urdf`)
}
