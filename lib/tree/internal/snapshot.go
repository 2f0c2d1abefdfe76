package internal

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	magicNum        = "DTREE\x00\x00\x00" // Snapshot format identifier
	snapshotVersion = 1                   // Snapshot format version

	entryKindDir  uint8 = 0
	entryKindFile uint8 = 1
)

// snapshotEntry is a flattened node, parents always precede their children.
type snapshotEntry struct {
	kind     uint8
	path     string
	contents string
}

// --------------------------------------------------------------------------
// Save & Load
// --------------------------------------------------------------------------

// Save writes the whole namespace to w.
//
// Format: magic, version (uint8), entry count (uint64), then per entry
// kind (uint8), path length (uint32), path, contents length (uint32), contents.
// All integers are little endian.
func (t *Tree) Save(w io.Writer) error {
	// Collect a consistent copy while holding the read lock, write it afterwards
	t.mu.RLock()
	entries := make([]snapshotEntry, 0, t.files+t.dirs)
	collect(t.root, nil, &entries)
	t.mu.RUnlock()

	bw := bufio.NewWriterSize(w, 1024*1024) // 1 MB buffer

	// Write file header
	if _, err := bw.WriteString(magicNum); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint8(snapshotVersion)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(entries))); err != nil {
		return err
	}

	// Write entries
	for _, e := range entries {
		if err := bw.WriteByte(e.kind); err != nil {
			return err
		}
		if err := writeString(bw, e.path); err != nil {
			return err
		}
		if err := writeString(bw, e.contents); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Load replaces the namespace with the snapshot read from r.
func (t *Tree) Load(r io.Reader) error {
	br := bufio.NewReaderSize(r, 1024*1024)

	// Read and verify the header
	magic := make([]byte, len(magicNum))
	if _, err := io.ReadFull(br, magic); err != nil {
		return fmt.Errorf("failed to read snapshot header: %w", err)
	}
	if string(magic) != magicNum {
		return fmt.Errorf("invalid snapshot header %q", magic)
	}
	var version uint8
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return err
	}
	if version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", version)
	}
	var count uint64
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return err
	}

	// Rebuild into a fresh tree so a broken snapshot leaves the current state untouched
	fresh := NewTree()
	for i := uint64(0); i < count; i++ {
		kind, err := br.ReadByte()
		if err != nil {
			return fmt.Errorf("failed to read entry %d: %w", i, err)
		}
		path, err := readString(br)
		if err != nil {
			return fmt.Errorf("failed to read path of entry %d: %w", i, err)
		}
		contents, err := readString(br)
		if err != nil {
			return fmt.Errorf("failed to read contents of entry %d: %w", i, err)
		}

		switch kind {
		case entryKindDir:
			err = fresh.MakeDirectory(path)
		case entryKindFile:
			err = fresh.Write(path, contents)
		default:
			err = fmt.Errorf("unknown entry kind %d", kind)
		}
		if err != nil {
			return fmt.Errorf("failed to restore %s: %w", path, err)
		}
	}

	t.mu.Lock()
	t.root, t.files, t.dirs = fresh.root, fresh.files, fresh.dirs
	t.mu.Unlock()
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// collect flattens the subtree below n in pre-order with sorted children.
func collect(n *node, segments []string, out *[]snapshotEntry) {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		child := n.children[name]
		childSegments := append(segments[:len(segments):len(segments)], name)
		if child.isDir() {
			*out = append(*out, snapshotEntry{kind: entryKindDir, path: JoinPath(childSegments)})
			collect(child, childSegments, out)
		} else {
			*out = append(*out, snapshotEntry{kind: entryKindFile, path: JoinPath(childSegments), contents: child.contents})
		}
	}
}

func writeString(w *bufio.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

func readString(r *bufio.Reader) (string, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
