package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"sort"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/urdf-preview/internal/config"
	"github.com/Faultbox/urdf-preview/internal/logger"
	"github.com/Faultbox/urdf-preview/internal/preview"
	"github.com/Faultbox/urdf-preview/internal/viewer"
	"github.com/Faultbox/urdf-preview/pkg/urdf"
)

// loadRobot parses a description without building a scene.
func loadRobot(cfg *config.Config, path string) (*urdf.Robot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !preview.CanHandleDocument(path, string(data), cfg.Preview.Extensions) {
		return nil, fmt.Errorf("%s is not a robot description", path)
	}
	s := newSession(context.Background(), cfg)
	defer s.close()
	m := s.preview.LoadModel(data, path)
	if m.Robot == nil {
		return nil, fmt.Errorf("could not parse %s", path)
	}
	return m.Robot, nil
}

func cmdInfo(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: urdfpreview info <file.urdf>")
	}
	robot, err := loadRobot(cfg, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Robot:     %s\n", robot.Name)
	fmt.Printf("Links:     %d\n", len(robot.Links))
	fmt.Printf("Joints:    %d\n", len(robot.Joints))
	fmt.Printf("Materials: %d\n", len(robot.Materials))

	shapes := make(map[string]int)
	var meshes []string
	for i := range robot.Links {
		g := robot.Links[i].Geometry()
		switch {
		case g == nil:
			shapes["(none)"]++
		case g.Box != nil:
			shapes["box"]++
		case g.Cylinder != nil:
			shapes["cylinder"]++
		case g.Sphere != nil:
			shapes["sphere"]++
		case g.Mesh != nil:
			shapes["mesh"]++
			meshes = append(meshes, g.Mesh.Filename)
		default:
			shapes["(empty)"]++
		}
	}
	printCounts("Geometry:", shapes)

	types := make(map[string]int)
	for _, j := range robot.Joints {
		types[string(j.Type)]++
	}
	printCounts("Joint types:", types)

	if len(meshes) > 0 {
		fmt.Println("\nMesh files:")
		for _, m := range meshes {
			fmt.Printf("  %s\n", m)
		}
	}
	return nil
}

func printCounts(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println()
	fmt.Println(title)
	for _, k := range keys {
		fmt.Printf("  %-12s %d\n", k, counts[k])
	}
}

func cmdTree(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: urdfpreview tree <file.urdf>")
	}
	robot, err := loadRobot(cfg, args[0])
	if err != nil {
		return err
	}

	children := make(map[string][]*urdf.Joint)
	isChild := make(map[string]bool)
	for i := range robot.Joints {
		j := &robot.Joints[i]
		children[j.ParentLink()] = append(children[j.ParentLink()], j)
		isChild[j.ChildLink()] = true
	}

	var walk func(link string, depth int)
	visited := make(map[string]bool)
	walk = func(link string, depth int) {
		fmt.Printf("%s%s\n", strings.Repeat("  ", depth), link)
		if visited[link] {
			return
		}
		visited[link] = true
		for _, j := range children[link] {
			lower, upper := j.Limits()
			fmt.Printf("%s  (%s %s [%.2f, %.2f])\n", strings.Repeat("  ", depth), j.Type, j.Name, lower, upper)
			walk(j.ChildLink(), depth+2)
		}
	}
	for _, l := range robot.Links {
		if !isChild[l.Name] {
			walk(l.Name, 0)
		}
	}
	return nil
}

func cmdSnapshot(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	highlight := fs.String("highlight", "", "Link to highlight")
	at := fs.String("at", "", "Highlight the quoted link name at line:column (1-based)")
	orbit := fs.String("orbit", "", "Drag the camera by dx,dy pixels")
	zoom := fs.Float64("zoom", 0, "Scroll the camera by this wheel delta")
	joints := jointValues{}
	fs.Var(joints, "set", "Set a joint control, joint=value (repeatable)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: urdfpreview snapshot [-highlight link | -at line:col] [-set joint=value] [-orbit dx,dy] [-zoom d] <file.urdf>")
	}
	if cfg.Preview.Watch {
		return cmdWatch(cfg, fs.Args())
	}

	var line, col int
	if *at != "" {
		var err error
		if line, col, err = parsePair[int](*at, ":"); err != nil {
			return fmt.Errorf("-at: %w", err)
		}
	}
	var dx, dy float64
	if *orbit != "" {
		var err error
		if dx, dy, err = parsePair[float64](*orbit, ","); err != nil {
			return fmt.Errorf("-orbit: %w", err)
		}
	}

	s := newSession(context.Background(), cfg)
	defer s.close()

	path := fs.Arg(0)
	ok, err := s.preview.Open(path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s is not a robot description", path)
	}
	s.settle()

	for name, v := range joints {
		if !s.renderer.SetJoint(name, v) {
			logger.Warn("joint has no control", zap.String("joint", name))
		}
	}

	switch {
	case *at != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		s.preview.SelectionChanged(string(data), line-1, col-1)
		s.settle()
	case *highlight != "":
		if !slices.Contains(s.renderer.MeshIDs(), *highlight) {
			logger.Warn("no mesh to highlight, clearing highlight",
				zap.String("link", *highlight), zap.Strings("meshes", s.renderer.MeshIDs()))
		}
		s.viewer.Handle(viewer.ViewerModel{HighlightMeshID: []string{*highlight}})
	}

	s.camera.HandleDrag(float32(dx), float32(dy))
	s.camera.HandleZoom(float32(*zoom))
	return s.print(os.Stdout)
}

// parsePair splits "a<sep>b" into two numbers.
func parsePair[T int | float64](s, sep string) (T, T, error) {
	a, b, ok := strings.Cut(s, sep)
	if !ok {
		return 0, 0, fmt.Errorf("expected two values separated by %q, got %q", sep, s)
	}
	var x, y T
	if _, err := fmt.Sscan(a, &x); err != nil {
		return 0, 0, fmt.Errorf("%q: %w", a, err)
	}
	if _, err := fmt.Sscan(b, &y); err != nil {
		return 0, 0, fmt.Errorf("%q: %w", b, err)
	}
	return x, y, nil
}

func cmdRestore(cfg *config.Config, args []string) error {
	if cfg.Preview.StateFile == "" {
		return errors.New("no state file configured, use -state")
	}
	s := newSession(context.Background(), cfg)
	defer s.close()

	ok, err := s.preview.Restore()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("nothing saved in %s", cfg.Preview.StateFile)
	}
	s.settle()
	return s.print(os.Stdout)
}

func cmdWatch(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: urdfpreview watch <file.urdf>")
	}
	path := args[0]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := newSession(ctx, cfg)
	defer s.close()

	// Print each model once all of its meshes are in.
	s.renderer.OnBatchDone = func(r viewer.BatchReport) {
		s.engine.Prune()
		if r.Stale {
			return
		}
		s.settled = append(s.settled, r)
		if err := s.print(os.Stdout); err != nil {
			logger.Warn("print failed", zap.Error(err))
		}
	}

	if _, err := s.preview.Open(path); err != nil {
		return err
	}

	w := preview.NewWatcher(path, cfg.Preview.WatchDebounce, func() {
		if err := s.preview.Reload(); err != nil {
			logger.Warn("reload failed", zap.Error(err))
		}
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.loop.Run(ctx) })
	g.Go(func() error { return w.Run(ctx) })

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
