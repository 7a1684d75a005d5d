package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/urdf-preview/internal/assets"
	"github.com/Faultbox/urdf-preview/internal/config"
	"github.com/Faultbox/urdf-preview/internal/preview"
	"github.com/Faultbox/urdf-preview/internal/render/headless"
	"github.com/Faultbox/urdf-preview/internal/viewer"
)

// session wires the viewer core to the headless engine.
type session struct {
	loop     *viewer.Loop
	assets   *assets.Manager
	engine   *headless.Engine
	panel    *headless.Panel
	camera   *headless.OrbitCamera
	renderer *viewer.Renderer
	viewer   *viewer.Viewer
	preview  *preview.Preview
	state    *preview.StateStore

	settled []viewer.BatchReport
}

func newSession(ctx context.Context, cfg *config.Config) *session {
	s := &session{
		loop:   viewer.NewLoop(),
		panel:  headless.NewPanel(),
		camera: headless.NewOrbitCamera(),
		state:  preview.NewStateStore(cfg.Preview.StateFile),
		assets: assets.NewManager(assets.Options{
			MaxConcurrent: cfg.Assets.MaxConcurrentLoads,
			Timeout:       cfg.Assets.FetchTimeout,
			CacheEntries:  cfg.Assets.CacheEntries,
		}),
	}
	s.engine = headless.NewEngine(ctx, s.assets, s.loop.Post)
	s.renderer = viewer.NewRenderer(s.engine, s.panel, s.camera, viewer.Options{
		HighlightAlpha: cfg.Viewer.HighlightAlpha,
		SphereSegments: cfg.Viewer.SphereSegments,
	})
	s.renderer.OnBatchDone = func(r viewer.BatchReport) {
		s.settled = append(s.settled, r)
	}
	s.viewer = viewer.NewViewer(s.renderer, s.state)
	s.preview = preview.New(preview.Options{
		Extensions:    cfg.Preview.Extensions,
		PackagePrefix: cfg.Assets.PackagePrefix,
		WorkspaceRoot: cfg.Assets.WorkspaceRoot,
	}, s.viewer, s.loop.Post, s.state)
	return s
}

// settle runs the loop until every mesh load has been applied. It must not
// be used while the loop is running elsewhere.
func (s *session) settle() {
	for {
		s.loop.RunPending()
		s.engine.Wait()
		if s.loop.RunPending() == 0 {
			s.engine.Prune()
			return
		}
	}
}

func (s *session) close() {
	s.assets.Close()
}

// print writes the scene graph, its extent, the camera pose, the joint
// controls and the last load report.
func (s *session) print(w io.Writer) error {
	fmt.Fprintf(w, "Scene (generation %d):\n", s.renderer.Generation())
	if err := s.engine.Dump(w); err != nil {
		return err
	}

	if min, max, ok := s.engine.Bounds(); ok {
		c := min.Add(max).Scale(0.5)
		d := max.Sub(min)
		fmt.Fprintf(w, "\nBounds: center (%.3f, %.3f, %.3f) size (%.3f, %.3f, %.3f)\n", c.X, c.Y, c.Z, d.X, d.Y, d.Z)
	}
	p := s.camera.Position()
	fmt.Fprintf(w, "Camera: alpha %.3f beta %.3f radius %.2f at (%.3f, %.3f, %.3f)\n",
		s.camera.Alpha, s.camera.Beta, s.camera.Radius, p.X, p.Y, p.Z)

	if len(s.panel.Sliders) > 0 {
		fmt.Fprintf(w, "\nControls (%d joint frames):\n", len(s.renderer.Transforms()))
		for i, sl := range s.panel.Sliders {
			label := ""
			if i < len(s.panel.Labels) {
				label = s.panel.Labels[i].Text()
			}
			fmt.Fprintf(w, "  %-30s [%.2f, %.2f]\n", label, sl.Min(), sl.Max())
		}
	}

	if n := len(s.settled); n > 0 {
		r := s.settled[n-1]
		fmt.Fprintf(w, "\nMeshes: %d of %d loaded\n", r.Loaded, r.Requested)
		if r.Err != nil {
			fmt.Fprintf(w, "Load errors: %v\n", r.Err)
		}
	}

	hits, misses := s.assets.Stats()
	fmt.Fprintf(w, "Asset cache: %d hits, %d misses\n", hits, misses)
	return nil
}

// jointValues collects repeated -set joint=value options.
type jointValues map[string]float32

func (j jointValues) String() string {
	parts := make([]string, 0, len(j))
	for k, v := range j {
		parts = append(parts, fmt.Sprintf("%s=%g", k, v))
	}
	return strings.Join(parts, ",")
}

func (j jointValues) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return fmt.Errorf("expected joint=value, got %q", s)
	}
	v, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return fmt.Errorf("joint %s: %w", name, err)
	}
	j[name] = float32(v)
	return nil
}
