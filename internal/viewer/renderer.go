// Package viewer assembles a robot model into a scene through the render
// capabilities: primitive and loaded meshes, materials, the joint
// hierarchy with its interactive controls, and selection highlighting.
package viewer

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/urdf-preview/internal/logger"
	"github.com/Faultbox/urdf-preview/internal/render"
	"github.com/Faultbox/urdf-preview/pkg/urdf"
)

// Options tunes scene assembly.
type Options struct {
	// HighlightAlpha is the opacity of meshes that are not selected.
	HighlightAlpha float32
	SphereSegments int
}

// DefaultOptions returns the stock settings.
func DefaultOptions() Options {
	return Options{HighlightAlpha: 0.4, SphereSegments: 32}
}

// Renderer holds the scene built for the current model. All methods must
// be called from the goroutine running the Loop.
type Renderer struct {
	engine render.Engine
	panel  render.Panel
	camera render.Camera
	opts   Options
	log    *zap.Logger

	meshes     map[string]render.Mesh
	materials  map[string]render.Material
	transforms []render.Node
	controls   map[string]render.Slider
	generation uint64
	cleared    bool

	// OnBatchDone, if set, is called after each mesh load batch settles.
	OnBatchDone func(BatchReport)
}

// NewRenderer creates a renderer with an empty scene. Unset options take
// their default values.
func NewRenderer(engine render.Engine, panel render.Panel, camera render.Camera, opts Options) *Renderer {
	def := DefaultOptions()
	if opts.HighlightAlpha <= 0 || opts.HighlightAlpha >= 1 {
		opts.HighlightAlpha = def.HighlightAlpha
	}
	if opts.SphereSegments <= 0 {
		opts.SphereSegments = def.SphereSegments
	}
	return &Renderer{
		engine:    engine,
		panel:     panel,
		camera:    camera,
		opts:      opts,
		log:       logger.Named("viewer"),
		meshes:    make(map[string]render.Mesh),
		materials: make(map[string]render.Material),
		controls:  make(map[string]render.Slider),
	}
}

// InitRobotModel builds materials and primitive meshes synchronously and
// starts loading mesh files. The joint hierarchy is connected once every
// load has settled. Call ResetModel first when replacing a model.
func (r *Renderer) InitRobotModel(robot *urdf.Robot) {
	r.initMaterials(robot)
	r.initLinks(robot)
	r.loadMeshes(robot)
}

// ResetModel disposes every mesh, material and joint transform and clears
// the control panel. It is safe to call on an empty scene.
func (r *Renderer) ResetModel() {
	for _, m := range r.meshes {
		m.Dispose()
	}
	for _, m := range r.materials {
		m.Dispose()
	}
	for _, t := range r.transforms {
		t.Dispose()
	}
	r.panel.Clear()
	clear(r.meshes)
	clear(r.materials)
	clear(r.controls)
	r.transforms = nil
	r.cleared = true
}

// Highlight keeps the mesh with the given id opaque and dims every other
// mesh. An unknown id restores full opacity everywhere.
func (r *Renderer) Highlight(id string) {
	_, known := r.meshes[id]
	for meshID, mesh := range r.meshes {
		m := mesh.Material()
		if m == nil {
			continue
		}
		if !known || meshID == id {
			m.SetAlpha(1)
		} else {
			m.SetAlpha(r.opts.HighlightAlpha)
		}
	}
}

// ResetView moves the camera back to its initial position.
func (r *Renderer) ResetView() {
	if r.camera != nil {
		r.camera.Reset()
	}
}

// Mesh returns the mesh registered for a link.
func (r *Renderer) Mesh(id string) (render.Mesh, bool) {
	m, ok := r.meshes[id]
	return m, ok
}

// MeshIDs returns the registered link names, sorted.
func (r *Renderer) MeshIDs() []string {
	ids := make([]string, 0, len(r.meshes))
	for id := range r.meshes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Material returns the base material with the given name.
func (r *Renderer) Material(name string) (render.Material, bool) {
	m, ok := r.materials[name]
	return m, ok
}

// Transforms returns the joint transforms of the current model.
func (r *Renderer) Transforms() []render.Node {
	return r.transforms
}

// Generation returns the number of models initialized so far.
func (r *Renderer) Generation() uint64 {
	return r.generation
}

func (r *Renderer) registerMesh(id string, mesh render.Mesh) {
	if old, ok := r.meshes[id]; ok && old != mesh {
		r.log.Debug("duplicate link name, replacing mesh", zap.String("link", id))
		old.Dispose()
	}
	r.meshes[id] = mesh
}
