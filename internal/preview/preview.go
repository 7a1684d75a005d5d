package preview

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/urdf-preview/internal/logger"
	"github.com/Faultbox/urdf-preview/internal/viewer"
	"github.com/Faultbox/urdf-preview/pkg/urdf"
)

// Options configures a Preview.
type Options struct {
	Extensions    []string
	PackagePrefix string
	// WorkspaceRoot is where package paths resolve; empty means the
	// directory of the description.
	WorkspaceRoot string
}

// Handler receives viewer messages. viewer.Viewer implements it.
type Handler interface {
	Handle(m viewer.ViewerModel)
}

// Preview feeds one description document to the viewer. Messages are
// delivered through post so that the viewer only runs on its loop.
type Preview struct {
	opts    Options
	handler Handler
	post    func(func())
	state   *StateStore
	log     *zap.Logger

	mu      sync.Mutex
	current string
}

// New creates a preview. state may be nil.
func New(opts Options, handler Handler, post func(func()), state *StateStore) *Preview {
	return &Preview{
		opts:    opts,
		handler: handler,
		post:    post,
		state:   state,
		log:     logger.Named("preview"),
	}
}

func (p *Preview) send(m viewer.ViewerModel) {
	p.post(func() { p.handler.Handle(m) })
}

// Current returns the path of the document being previewed.
func (p *Preview) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Open reads the document at path and, when it is a robot description,
// previews it. It returns false for documents it does not handle.
func (p *Preview) Open(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if !CanHandleDocument(path, string(data), p.opts.Extensions) {
		p.log.Debug("not a robot description", zap.String("path", path))
		return false, nil
	}

	p.mu.Lock()
	p.current = path
	p.mu.Unlock()

	p.send(p.LoadModel(data, path))
	return true, nil
}

// Reload previews the current document again.
func (p *Preview) Reload() error {
	path := p.Current()
	if path == "" {
		return nil
	}
	_, err := p.Open(path)
	return err
}

// ResetView asks the viewer to move the camera back.
func (p *Preview) ResetView() {
	p.send(viewer.ViewerModel{Reset: true})
}

// SelectionChanged highlights the link named by the quoted word under the
// cursor of text, the current contents of the document.
func (p *Preview) SelectionChanged(text string, line, column int) {
	path := p.Current()
	if path == "" || !CanHandleDocument(path, text, p.opts.Extensions) {
		return
	}
	id := ResolveSelectedMeshID(text, line, column)
	p.send(viewer.ViewerModel{HighlightMeshID: []string{id}})
}

// Restore replays the persisted model, if any.
func (p *Preview) Restore() (bool, error) {
	if p.state == nil {
		return false, nil
	}
	m, ok, err := p.state.Load()
	if err != nil || !ok {
		return false, err
	}
	p.send(m)
	return true, nil
}

// LoadModel builds the viewer message for a description. Documents that
// cannot be parsed yield an empty message, which clears the scene.
func (p *Preview) LoadModel(data []byte, documentPath string) viewer.ViewerModel {
	robot, err := p.parse(data, documentPath)
	if err != nil {
		p.log.Warn("could not parse model", zap.String("path", documentPath), zap.Error(err))
		return viewer.ViewerModel{}
	}
	return viewer.ViewerModel{Robot: robot}
}

func (p *Preview) parse(data []byte, documentPath string) (*urdf.Robot, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	raw, err := RobotElement(doc)
	if err != nil {
		return nil, err
	}
	return urdf.Normalize(raw, NewAssetMapper(p.root(documentPath), p.opts.PackagePrefix))
}

func (p *Preview) root(documentPath string) string {
	root := p.opts.WorkspaceRoot
	if root == "" {
		root = filepath.Dir(documentPath)
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return root
}
