package ebitenhost

import "errors"

var (
	// ErrForeignTexture is returned when a texture not backed by an
	// *ebiten.Image is bound to a program or used as a target.
	ErrForeignTexture = errors.New("ebitenhost: texture not created by this host")

	// ErrDisposed is returned when a disposed framebuffer or program is used.
	ErrDisposed = errors.New("ebitenhost: use of disposed resource")

	// ErrNoScreen reports a capture requested before SetScreen.
	ErrNoScreen = errors.New("ebitenhost: no screen image")
)
