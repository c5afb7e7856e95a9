// Package dvl writes and reads PICA200 shader binary containers (shbin).
//
// A container has three parts, all little-endian and word aligned:
//   - DVLB: the outer header, holding the declared program count and one
//     offset word per emitted program section
//   - DVLP: the shared code blob, holding the opcode words and the operand
//     descriptor table
//   - DVLE: one section per emitted program, holding its header followed by
//     the constant, output, uniform and symbol tables
//
// # Writing
//
// Serialize turns an assembly result into a container in one pass:
//
//	data := dvl.Serialize(result)
//
// The layout is computed up front by ComputeLayout, so the output buffer is
// allocated once and filled sequentially. The same result always produces
// the same bytes.
//
// # Declared count and offset table
//
// The DVLB header declares every program, including programs marked Skip,
// but the offset table only carries entries for emitted sections. Section
// offsets are computed against the declared header size. Loaders built for
// this format expect exactly that, so it is reproduced as is; Decode reports
// the resulting difference as Container.OffsetSkew.
//
// # Reading
//
// Decode parses a container into a read-only Container view, used by the
// shbindis tool and by tests.
package dvl
