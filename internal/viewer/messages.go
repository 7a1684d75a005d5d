package viewer

import (
	"encoding/json"
	"fmt"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"github.com/Faultbox/urdf-preview/internal/logger"
	"github.com/Faultbox/urdf-preview/pkg/urdf"
)

// ViewerModel is a message from the host. Exactly one of the fields is
// normally set; an empty message means the document could not be parsed.
// It doubles as the persisted preview state.
type ViewerModel struct {
	Robot           *urdf.Robot `json:"robot,omitempty"`
	Reset           bool        `json:"reset,omitempty"`
	HighlightMeshID []string    `json:"highlightMeshId,omitempty"`
}

// Clone returns a deep copy, so that the persisted snapshot does not
// change when the scene mutates the model.
func (m ViewerModel) Clone() (ViewerModel, error) {
	var out ViewerModel
	if err := copier.CopyWithOption(&out, &m, copier.Option{DeepCopy: true}); err != nil {
		return ViewerModel{}, fmt.Errorf("copying viewer model: %w", err)
	}
	return out, nil
}

// DecodeMessage parses a JSON host message.
func DecodeMessage(data []byte) (ViewerModel, error) {
	var m ViewerModel
	if err := json.Unmarshal(data, &m); err != nil {
		return ViewerModel{}, fmt.Errorf("decoding viewer message: %w", err)
	}
	return m, nil
}

// StateSaver persists the last loaded model.
type StateSaver interface {
	Save(m ViewerModel) error
}

// Viewer dispatches host messages to a Renderer.
type Viewer struct {
	renderer *Renderer
	state    StateSaver
	log      *zap.Logger
}

// NewViewer creates a dispatcher. state may be nil.
func NewViewer(r *Renderer, state StateSaver) *Viewer {
	return &Viewer{renderer: r, state: state, log: logger.Named("viewer")}
}

// Renderer returns the renderer messages are applied to.
func (v *Viewer) Renderer() *Renderer {
	return v.renderer
}

// Handle applies one message. A reset only moves the camera and a
// highlight only changes opacity; anything else replaces the model.
func (v *Viewer) Handle(m ViewerModel) {
	if m.Reset {
		v.renderer.ResetView()
		return
	}
	if m.HighlightMeshID != nil {
		id := ""
		if len(m.HighlightMeshID) > 0 {
			id = m.HighlightMeshID[0]
		}
		v.renderer.Highlight(id)
		return
	}

	v.renderer.ResetModel()
	if m.Robot == nil {
		v.log.Debug("message without robot, scene cleared")
		return
	}

	if v.state != nil {
		if snap, err := m.Clone(); err != nil {
			v.log.Warn("could not snapshot model", zap.Error(err))
		} else if err := v.state.Save(snap); err != nil {
			v.log.Warn("could not persist preview state", zap.Error(err))
		}
	}
	v.log.Info("loading robot",
		zap.String("robot", m.Robot.Name),
		zap.Int("links", len(m.Robot.Links)),
		zap.Int("joints", len(m.Robot.Joints)))
	v.renderer.InitRobotModel(m.Robot)
}
