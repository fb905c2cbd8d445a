package strata

import "errors"

var (
	// ErrUnsupportedHost is returned by NewSystem when the host cannot
	// provide off-screen buffers and compiled programs.
	ErrUnsupportedHost = errors.New("strata: host lacks off-screen or shader support")

	// ErrDisposed is returned when creating layers on a disposed System.
	ErrDisposed = errors.New("strata: system disposed")

	// ErrInvalidSize is returned when a layer is created or resized with a
	// non-positive width, height or density.
	ErrInvalidSize = errors.New("strata: invalid layer size")

	// ErrInvalidOrder is returned by ReorderLayers when the order names an
	// unknown layer or repeats one.
	ErrInvalidOrder = errors.New("strata: invalid layer order")

	// ErrLayerActive is returned by Layer.Resize between Begin and End.
	ErrLayerActive = errors.New("strata: layer is being drawn")
)
