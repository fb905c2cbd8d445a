// Package inspect provides a layer panel for strata systems running on
// ebitenhost. Attach an Inspector with System.CreateUI, call Flush once per
// Update and Draw after System.Render.
package inspect

import (
	"cmp"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/strata"
	"github.com/phanxgames/strata/internal/batch"
	"go.uber.org/zap"
)

// Default panel dimensions.
const (
	DefaultThumbWidth  = 48
	DefaultThumbHeight = 27
)

// CaptureFunc renders layer l into thumb, which is ThumbWidth x ThumbHeight.
type CaptureFunc func(l *strata.Layer, thumb *ebiten.Image) error

// Options configures an Inspector.
type Options struct {
	// X and Y position the panel on screen.
	X, Y int
	// ThumbWidth and ThumbHeight size each thumbnail. Zero uses the
	// defaults.
	ThumbWidth, ThumbHeight int
	// Budget bounds the time Flush spends capturing thumbnails per call.
	// Zero uses batch.DefaultBudget.
	Budget time.Duration
	// Capture draws thumbnails. Nil uses CaptureThumbnail.
	Capture CaptureFunc
	// ShowFPS adds an FPS/TPS line above the layer list.
	ShowFPS bool
	// Clock is passed to the batch worker. Nil uses time.Now.
	Clock func() time.Time
}

// Row is the panel's view of one layer.
type Row struct {
	ID        int
	Name      string
	Visible   bool
	Opacity   float64
	BlendMode strata.BlendMode
	ZIndex    int
	HasMask   bool
	// Captures counts thumbnail refreshes.
	Captures int

	thumb *ebiten.Image
}

// Thumbnail returns the row's thumbnail image, nil until first captured.
func (r *Row) Thumbnail() *ebiten.Image { return r.thumb }

// Inspector implements strata.Observer. Rows are listed top-down, the
// highest zIndex first.
type Inspector struct {
	opts   Options
	rows   []*Row
	byID   map[int]*Row
	layers map[int]*strata.Layer
	worker *batch.Worker[int]

	// fps text refreshed every half second, as ebiten reports it
	fpsText  string
	fpsClock float64

	disposed bool
}

var _ strata.Observer = (*Inspector)(nil)

// New creates an inspector.
func New(opts Options) *Inspector {
	if opts.ThumbWidth <= 0 {
		opts.ThumbWidth = DefaultThumbWidth
	}
	if opts.ThumbHeight <= 0 {
		opts.ThumbHeight = DefaultThumbHeight
	}
	if opts.Capture == nil {
		opts.Capture = CaptureThumbnail
	}
	return &Inspector{
		opts:   opts,
		byID:   make(map[int]*Row),
		layers: make(map[int]*strata.Layer),
		worker: batch.New[int](batch.Config{Budget: opts.Budget, Clock: opts.Clock}),
	}
}

// Rows returns the rows top-down. The slice is owned by the inspector.
func (in *Inspector) Rows() []*Row { return in.rows }

// Row returns the row of layer id, or nil.
func (in *Inspector) Row(id int) *Row { return in.byID[id] }

// PendingThumbnails returns the number of queued captures.
func (in *Inspector) PendingThumbnails() int { return in.worker.Len() }

// Update rebuilds the rows. Rows of removed layers are dropped along with
// their thumbnails; layers seen for the first time that already hold
// content get a capture queued.
func (in *Inspector) Update(layers []*strata.Layer) {
	if in.disposed {
		return
	}
	seen := make(map[int]bool, len(layers))
	clear(in.layers)
	rows := in.rows[:0]
	for _, l := range layers {
		id := l.ID()
		seen[id] = true
		in.layers[id] = l
		r, ok := in.byID[id]
		if !ok {
			r = &Row{ID: id}
			in.byID[id] = r
			if l.HasBeenDrawnTo() {
				in.schedule(id)
			}
		}
		r.refresh(l)
		rows = append(rows, r)
	}
	for id, r := range in.byID {
		if seen[id] {
			continue
		}
		in.worker.Cancel(id)
		if r.thumb != nil {
			r.thumb.Deallocate()
		}
		delete(in.byID, id)
	}
	in.rows = rows
	in.sortRows()
}

// SyncState refreshes row attributes in place and re-sorts when stacking
// changed.
func (in *Inspector) SyncState(layers []*strata.Layer) {
	if in.disposed {
		return
	}
	for _, l := range layers {
		if r, ok := in.byID[l.ID()]; ok {
			r.refresh(l)
			in.layers[l.ID()] = l
		}
	}
	in.sortRows()
}

// ScheduleThumbnailUpdate queues a capture for layer id. Repeated requests
// before the next Flush collapse into one capture.
func (in *Inspector) ScheduleThumbnailUpdate(id int, opts strata.ThumbnailOptions) {
	if in.disposed || !opts.NeedsCapture {
		return
	}
	if _, ok := in.byID[id]; !ok {
		return
	}
	in.schedule(id)
}

func (in *Inspector) schedule(id int) {
	in.worker.Submit(id, func() { in.capture(id) })
}

func (in *Inspector) capture(id int) {
	r, l := in.byID[id], in.layers[id]
	if r == nil || l == nil || l.Disposed() {
		return
	}
	if r.thumb == nil {
		r.thumb = ebiten.NewImage(in.opts.ThumbWidth, in.opts.ThumbHeight)
	}
	if err := in.opts.Capture(l, r.thumb); err != nil {
		strata.Logger().Debug("thumbnail capture failed", zap.Int("layer", id), zap.Error(err))
		return
	}
	r.Captures++
}

// Flush runs queued captures within the time budget and returns how many
// ran. Call once per frame.
func (in *Inspector) Flush() int {
	if in.disposed {
		return 0
	}
	return in.worker.Flush()
}

// Dispose drops pending captures and releases thumbnails.
func (in *Inspector) Dispose() {
	if in.disposed {
		return
	}
	in.disposed = true
	in.worker.Clear()
	for _, r := range in.byID {
		if r.thumb != nil {
			r.thumb.Deallocate()
			r.thumb = nil
		}
	}
	clear(in.byID)
	clear(in.layers)
	in.rows = nil
}

func (in *Inspector) sortRows() {
	slices.SortStableFunc(in.rows, func(a, b *Row) int {
		if c := cmp.Compare(b.ZIndex, a.ZIndex); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}

func (r *Row) refresh(l *strata.Layer) {
	r.Name = l.Name()
	r.Visible = l.Visible()
	r.Opacity = l.Opacity()
	r.BlendMode = l.BlendMode()
	r.ZIndex = l.ZIndex()
	r.HasMask = l.HasMask()
}
