// Package slab supplies size classification and run tracking for a
// pooled, slab-style buffer allocator, with a limited scope:
//
//   - No memory is reserved or mapped by this package. The chunk/run
//     allocator that owns the actual chunk memory consumes these types.
//   - Size classes are generated in groups of four, jemalloc style,
//     doubling both the group base and the step between classes from
//     one group to the next, starting from the quantum (16 bytes) and
//     ending exactly on the configured chunk size.
//   - SizeClasses is immutable once constructed and can be shared by
//     any number of concurrent readers.
//   - RunMap tracks free runs keyed by a caller encoded run handle.
//     It is not thread safe, the owning allocator serializes access.
package slab
