// Package internal holds the in-memory namespace shared by the tree implementations
// together with the protocol structures used by the distributed tree. It should not be
// imported by code outside of the tree packages.
//
// The package consists of three components:
//
//   - Tree: A hierarchical namespace of directories and files guarded by a read/write
//     mutex. Both the local tree (ltree) and the raft state machine (dtree) keep their
//     data in a Tree.
//
//   - Command System: Mutations (MakeDirectory, Write, RemoveFile) are serialized into
//     a compact binary form and proposed to the RAFT cluster. Every replica applies the
//     decoded command to its Tree.
//
//   - Query System: Read operations (Read, List, GetInfo) are executed locally on the
//     state machine and therefore do not require serialization.
//
// Command Format:
//
//	- 1 byte: Command type
//	- 4 bytes: Path length (uint32, big endian)
//	- N bytes: Path
//	- M bytes: File contents (only meaningful for Write)
//
// Snapshot Format:
//
//	Snapshots start with a magic number and a version byte followed by the entry count
//	and the flattened tree in pre-order, so directories always precede their children.
//	See Tree.Save for details.
package internal
