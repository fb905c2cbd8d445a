// Package softhost is a CPU render host for strata.
//
// Buffers are *image.NRGBA. There is no shader compiler: programs are Go
// kernels registered by name, and CompileProgram looks the name up. The
// strata blend program is registered on every Host.
//
// softhost is deterministic and needs no GPU or window, which makes it the
// host of choice for tests and offline rendering.
package softhost
