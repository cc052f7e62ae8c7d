// Package testfs provides test infrastructure for filesystem operations.
//
// Tests describe a directory tree declaratively and the harness creates it
// under t.TempDir():
//
//	given := testfs.FileTree{
//	    Files: []testfs.File{
//	        {Path: []string{"a.txt", "backup/a.txt"}, Chunks: []testfs.Chunk{{Pattern: 'A', Size: "1KiB"}}},
//	        {Path: []string{"b.txt"}, Chunks: []testfs.Chunk{{Pattern: 'B', Size: "1KiB"}}},
//	    },
//	    Dirs: []string{"empty"},
//	}
//	h := testfs.New(t, given)
//	res := collector.New(opts).Collect(ctx, []string{h.Root()})
//
// Subdirectories are created automatically from file paths (mkdir -p semantics).
// All paths are relative to the harness root.
//
// # Field Usage
//
//	| Field          | Setup                                  |
//	|----------------|----------------------------------------|
//	| File.Path      | Each path gets an independent copy     |
//	| File.Chunks    | Generate content                       |
//	| Dirs           | Create (possibly empty) directories    |
//	| Symlinks       | Create symlink Path -> Target          |
//	| Unreadable     | chmod 000 after creation               |
package testfs

import "github.com/dustin/go-humanize"

// FileTree describes a filesystem state.
type FileTree struct {
	Files      []File    `json:"files,omitempty"`
	Dirs       []string  `json:"dirs,omitempty"`
	Symlinks   []Symlink `json:"symlinks,omitempty"`
	Unreadable []string  `json:"unreadable,omitempty"`
}

// File defines regular files sharing identical content.
//
// Every path in Path is written as an independent file (distinct inode)
// with the content described by Chunks. Same chunks = same content.
type File struct {
	Path   []string `json:"path"`
	Chunks []Chunk  `json:"chunks,omitempty"`
}

// Chunk defines a region of file content filled with a pattern byte.
type Chunk struct {
	// Pattern is the fill byte for this chunk region.
	Pattern rune `json:"pattern"`

	// Size in IEC units (1024-based): "1KiB", "1MiB".
	Size string `json:"size"`
}

// TotalSize calculates the sum of all chunk sizes in bytes.
func (f *File) TotalSize() int64 {
	var total int64
	for _, c := range f.Chunks {
		size, _ := humanize.ParseBytes(c.Size)
		total += int64(size)
	}
	return total
}

// Symlink defines a symbolic link.
type Symlink struct {
	Path   string `json:"path"`   // Relative to the root
	Target string `json:"target"` // Stored verbatim
}
