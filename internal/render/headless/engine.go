// Package headless implements the render capabilities in memory. It keeps
// the scene graph as plain Go values so that the viewer can run without a
// GPU, from the command line and in tests.
package headless

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/urdf-preview/internal/logger"
	"github.com/Faultbox/urdf-preview/internal/render"
	"github.com/Faultbox/urdf-preview/pkg/formats"
)

// Loader fetches asset bytes. assets.Manager implements it.
type Loader interface {
	Load(ctx context.Context, uri string) ([]byte, error)
}

// Poster schedules fn on the goroutine that owns the scene.
type Poster func(fn func())

// Engine is an in-memory render.Engine. Apart from the fetch and decode
// work of LoadMesh, it must only be used from the owning goroutine.
type Engine struct {
	ctx    context.Context
	loader Loader
	post   Poster
	log    *zap.Logger

	nodes     []*Node
	materials []*Material
	pending   sync.WaitGroup
}

// NewEngine creates an engine. Load completions are delivered through
// post; ctx bounds in-flight fetches.
func NewEngine(ctx context.Context, loader Loader, post Poster) *Engine {
	return &Engine{
		ctx:    ctx,
		loader: loader,
		post:   post,
		log:    logger.Named("headless"),
	}
}

func (e *Engine) add(n *Node) *Node {
	e.nodes = append(e.nodes, n)
	return n
}

// CreateBox implements render.Engine.
func (e *Engine) CreateBox(name string, width, height, depth float32) render.Mesh {
	n := newNode(name, KindBox)
	n.Dimensions = []float32{width, height, depth}
	return e.add(n)
}

// CreateCylinder implements render.Engine.
func (e *Engine) CreateCylinder(name string, height, diameter float32) render.Mesh {
	n := newNode(name, KindCylinder)
	n.Dimensions = []float32{height, diameter}
	return e.add(n)
}

// CreateSphere implements render.Engine.
func (e *Engine) CreateSphere(name string, diameter float32, segments int) render.Mesh {
	n := newNode(name, KindSphere)
	n.Dimensions = []float32{diameter, float32(segments)}
	return e.add(n)
}

// CreateTransform implements render.Engine.
func (e *Engine) CreateTransform(name string) render.Node {
	return e.add(newNode(name, KindTransform))
}

// CreateMaterial implements render.Engine.
func (e *Engine) CreateMaterial(name string) render.Material {
	m := newMaterial(name)
	e.materials = append(e.materials, m)
	return m
}

// LoadMesh implements render.Engine. The file is fetched and decoded on
// its own goroutine; the node is created when done runs.
func (e *Engine) LoadMesh(name, uri string, done render.LoadFunc) {
	e.pending.Add(1)
	go func() {
		defer e.pending.Done()

		geometry, err := e.fetch(uri)
		e.post(func() {
			if err != nil {
				done(nil, fmt.Errorf("loading mesh for %s: %w", name, err))
				return
			}
			n := newNode(name, KindMesh)
			n.Geometry = geometry
			e.add(n)
			e.log.Debug("mesh loaded",
				zap.String("name", name),
				zap.Int("triangles", geometry.TriangleCount()))
			done(n, nil)
		})
	}()
}

func (e *Engine) fetch(uri string) (*formats.Mesh, error) {
	data, err := e.loader.Load(e.ctx, uri)
	if err != nil {
		return nil, err
	}
	// The decoder picks the format from the path, not the query.
	name := uri
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		name = u.Path
	}
	return formats.Decode(name, data)
}

// Wait blocks until every LoadMesh fetch has posted its completion.
func (e *Engine) Wait() {
	e.pending.Wait()
}

// Nodes returns every node that has not been disposed, in creation order.
func (e *Engine) Nodes() []*Node {
	var out []*Node
	for _, n := range e.nodes {
		if !n.disposed {
			out = append(out, n)
		}
	}
	return out
}

// Roots returns the live nodes without a parent.
func (e *Engine) Roots() []*Node {
	var out []*Node
	for _, n := range e.Nodes() {
		if n.parent == nil {
			out = append(out, n)
		}
	}
	return out
}

// Children returns the live nodes directly under parent.
func (e *Engine) Children(parent *Node) []*Node {
	var out []*Node
	for _, n := range e.Nodes() {
		if n.ParentNode() == parent {
			out = append(out, n)
		}
	}
	return out
}

// Find returns the first live node with the given name and kind, or nil.
// An empty kind matches any node.
func (e *Engine) Find(name string, kind Kind) *Node {
	for _, n := range e.nodes {
		if !n.disposed && n.name == name && (kind == "" || n.kind == kind) {
			return n
		}
	}
	return nil
}

// Materials returns every material that has not been disposed.
func (e *Engine) Materials() []*Material {
	var out []*Material
	for _, m := range e.materials {
		if !m.disposed {
			out = append(out, m)
		}
	}
	return out
}

// Prune forgets disposed nodes and materials.
func (e *Engine) Prune() {
	e.nodes = e.Nodes()
	e.materials = e.Materials()
}
