package viewer

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/urdf-preview/internal/render"
	"github.com/Faultbox/urdf-preview/pkg/math"
	"github.com/Faultbox/urdf-preview/pkg/urdf"
)

// BatchReport summarizes one settled mesh load batch.
type BatchReport struct {
	Generation uint64
	Requested  int
	Loaded     int
	// Stale is set when a newer model was initialized before the batch
	// settled. Its meshes have been disposed.
	Stale bool
	// Err joins every load failure of the batch.
	Err error
}

// loadBatch tracks the mesh loads started by one InitRobotModel call.
type loadBatch struct {
	generation uint64
	robot      *urdf.Robot
	requested  int
	remaining  int
	loaded     []render.Mesh
	errs       error
}

// loadMeshes starts one load per link with an external mesh and connects
// the joints when all of them have reported back.
func (r *Renderer) loadMeshes(robot *urdf.Robot) {
	r.generation++
	r.cleared = false
	b := &loadBatch{generation: r.generation, robot: robot}

	var links []*urdf.Link
	for i := range robot.Links {
		link := &robot.Links[i]
		if link.MeshFilename() == "" || primitive(link.Geometry()) {
			continue
		}
		if link.Name == "" {
			r.log.Debug("skipping unnamed link", zap.String("mesh", link.MeshFilename()))
			continue
		}
		links = append(links, link)
	}

	b.requested = len(links)
	b.remaining = len(links)
	if b.remaining == 0 {
		r.finishBatch(b)
		return
	}

	r.log.Debug("loading meshes", zap.Uint64("generation", b.generation), zap.Int("count", b.remaining))
	for _, link := range links {
		link := link
		r.engine.LoadMesh(link.Name, link.MeshFilename(), func(mesh render.Mesh, err error) {
			r.meshLoaded(b, link, mesh, err)
		})
	}
}

func (r *Renderer) meshLoaded(b *loadBatch, link *urdf.Link, mesh render.Mesh, err error) {
	switch {
	case err != nil:
		r.log.Debug("mesh load failed", zap.String("link", link.Name), zap.Error(err))
		b.errs = multierr.Append(b.errs, err)
	case !r.current(b):
		b.loaded = append(b.loaded, mesh)
		mesh.Dispose()
	default:
		b.loaded = append(b.loaded, mesh)
		r.registerMesh(link.Name, mesh)
		r.setupBaseProperties(mesh, link)
		if s := link.Geometry().Mesh.Scale; s != "" {
			v := urdf.StringToVector3(s)
			mesh.SetScaling(math.Vec3{
				X: urdf.ScaleFactor(v.X),
				Y: urdf.ScaleFactor(v.Y),
				Z: urdf.ScaleFactor(v.Z),
			})
		}
	}

	b.remaining--
	if b.remaining == 0 {
		r.finishBatch(b)
	}
}

// current reports whether b belongs to the model on screen. A reset
// without a new model also orphans in-flight loads.
func (r *Renderer) current(b *loadBatch) bool {
	return b.generation == r.generation && !r.cleared
}

func (r *Renderer) finishBatch(b *loadBatch) {
	report := BatchReport{
		Generation: b.generation,
		Requested:  b.requested,
		Loaded:     len(b.loaded),
		Stale:      !r.current(b),
		Err:        b.errs,
	}

	if report.Stale {
		disposed := make(map[render.Mesh]bool, len(b.loaded))
		for _, m := range b.loaded {
			m.Dispose()
			disposed[m] = true
		}
		// Meshes registered before the batch went stale.
		for id, m := range r.meshes {
			if disposed[m] {
				delete(r.meshes, id)
			}
		}
		r.log.Debug("discarded superseded meshes",
			zap.Uint64("generation", b.generation), zap.Int("count", len(b.loaded)))
	} else {
		r.connectJoints(b.robot)
		if b.errs != nil {
			r.log.Debug("some meshes failed to load",
				zap.Int("failed", len(multierr.Errors(b.errs))), zap.Error(b.errs))
		}
	}

	if r.OnBatchDone != nil {
		r.OnBatchDone(report)
	}
}
