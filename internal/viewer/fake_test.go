package viewer

import (
	"context"
	"errors"

	"github.com/Faultbox/urdf-preview/internal/render"
	"github.com/Faultbox/urdf-preview/internal/render/headless"
)

// pendingLoad is a LoadMesh call the test completes by hand.
type pendingLoad struct {
	name, uri string
	done      render.LoadFunc
}

// fakeEngine builds primitives with the headless engine but holds mesh
// loads until the test resolves them.
type fakeEngine struct {
	*headless.Engine
	pending []pendingLoad
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		Engine: headless.NewEngine(context.Background(), nil, func(fn func()) { fn() }),
	}
}

func (f *fakeEngine) LoadMesh(name, uri string, done render.LoadFunc) {
	f.pending = append(f.pending, pendingLoad{name: name, uri: uri, done: done})
}

// succeed completes the i-th pending load with a stand-in mesh.
func (f *fakeEngine) succeed(i int) render.Mesh {
	p := f.pending[i]
	m := f.Engine.CreateBox(p.name, 1, 1, 1)
	p.done(m, nil)
	return m
}

func (f *fakeEngine) fail(i int) {
	p := f.pending[i]
	p.done(nil, errors.New("fetch failed: "+p.uri))
}

type fakeCamera struct{ resets int }

func (c *fakeCamera) Reset() { c.resets++ }

type memoryState struct{ saved []ViewerModel }

func (s *memoryState) Save(m ViewerModel) error {
	s.saved = append(s.saved, m)
	return nil
}

type fixture struct {
	engine   *fakeEngine
	panel    *headless.Panel
	camera   *fakeCamera
	renderer *Renderer
	reports  []BatchReport
}

func newFixture() *fixture {
	f := &fixture{
		engine: newFakeEngine(),
		panel:  headless.NewPanel(),
		camera: &fakeCamera{},
	}
	f.renderer = NewRenderer(f.engine, f.panel, f.camera, Options{})
	f.renderer.OnBatchDone = func(r BatchReport) { f.reports = append(f.reports, r) }
	return f
}

func (f *fixture) node(name string) *headless.Node {
	m, ok := f.renderer.Mesh(name)
	if !ok {
		return nil
	}
	return m.(*headless.Node)
}
