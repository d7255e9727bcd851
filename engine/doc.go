// Package engine drives the adaptive combination search.
//
// An Engine owns the shared, read-mostly state: the algorithm registry, the
// combination table and the size knobs. A Worker is one execution context
// holding its own SearchHistory and Workspace; create one Worker per
// goroutine and reuse it for every call. Workers never lock and never
// allocate on the compress and decompress paths, apart from growing the
// caller's destination slice.
//
// # Compression
//
// Worker.Compress tries the table's combinations starting at the
// combination that won the previous call. After every pipeline step the
// intermediate result is a candidate, so a prefix of a combination may be
// stored. The search stops early as soon as the best result is below the
// larger of the early-abort size and the previous winner's size plus 12.5%.
// Every RetryInterval calls the start position is rotated by one so that a
// once-good combination does not stay cached forever.
//
// # Records
//
// A record is an 8-byte section.RecordHeader followed by the payload of the
// last applied step. Decompression needs only the registry: it replays the
// recorded steps in reverse order and never consults the table.
package engine
