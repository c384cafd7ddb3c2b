// Package formats reads and writes heightcast map files (.hcm).
//
// A map file is an 8-byte header ("HCMP", minor, major, flags, reserved)
// followed by a little-endian body that may be zstd-compressed: the
// dimensions and sky id, six row-major per-cell arrays and the sprite table.
package formats
