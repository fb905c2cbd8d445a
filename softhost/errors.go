package softhost

import "errors"

var (
	// ErrUnknownProgram is returned by CompileProgram for names without a
	// registered kernel.
	ErrUnknownProgram = errors.New("softhost: no kernel registered")

	// ErrAllocation is returned by NewFramebuffer when allocation failure
	// was requested with FailAllocations.
	ErrAllocation = errors.New("softhost: allocation failed")

	// ErrForeignTexture is returned when a program is given a texture or
	// target that was not created by softhost.
	ErrForeignTexture = errors.New("softhost: texture not owned by softhost")

	// ErrDisposed is returned when running a disposed program or drawing
	// into a disposed framebuffer.
	ErrDisposed = errors.New("softhost: resource disposed")
)
