package strata

// ThumbnailOptions accompanies a thumbnail refresh request.
type ThumbnailOptions struct {
	// NeedsCapture is set when the layer's pixels changed, as opposed to
	// only its attributes.
	NeedsCapture bool
}

// Observer is an optional collaborator, typically a layer panel, that
// mirrors the layer stack. The System only calls these methods and never
// depends on what the observer does with them.
type Observer interface {
	// Update rebuilds the observer's view from the sorted layer list.
	Update(layers []*Layer)
	// SyncState refreshes per-layer state without rebuilding; called once
	// per rendered frame.
	SyncState(layers []*Layer)
	// ScheduleThumbnailUpdate requests a new thumbnail for a layer.
	ScheduleThumbnailUpdate(id int, opts ThumbnailOptions)
	Dispose()
}
