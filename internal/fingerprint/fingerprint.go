// Package fingerprint computes content fingerprints (SHA-1 digests) of files.
//
// Content is streamed through the digest in fixed-size blocks, so memory use
// does not depend on file size. Failures are reported per file as *ReadError
// and never retried.
package fingerprint

import (
	"crypto/sha1" //nolint:gosec // content identity, not security
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/ivoronin/dupeview/internal/types"
)

// blockSize is the read buffer size (64KB)
const blockSize = 64 * 1024

// Size is the length of a fingerprint in bytes.
const Size = sha1.Size

// ErrUnreadable matches every *ReadError via errors.Is.
var ErrUnreadable = errors.New("unreadable file")

// Reason tells at which step reading a file failed.
type Reason int

const (
	ReasonOpen Reason = iota // File could not be opened
	ReasonRead               // File opened but reading failed mid-stream
)

func (r Reason) String() string {
	if r == ReasonOpen {
		return "cannot open"
	}
	return "cannot read"
}

// ReadError reports a file whose content could not be fingerprinted.
type ReadError struct {
	Path   string
	Reason Reason
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Reason, e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrUnreadable) true for any ReadError.
func (e *ReadError) Is(target error) bool { return target == ErrUnreadable }

// Warning returns the user-facing message for the failure.
func (e *ReadError) Warning() string {
	if e.Reason == ReasonOpen {
		return fmt.Sprintf("Unable to open '%s'", e.Path)
	}
	return fmt.Sprintf("Cannot read '%s'", e.Path)
}

// Opener opens files for reading. os.Open satisfies it through OpenerFunc.
type Opener interface {
	Open(path string) (io.ReadCloser, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(path string) (io.ReadCloser, error)

// Open calls f(path).
func (f OpenerFunc) Open(path string) (io.ReadCloser, error) { return f(path) }

// OSOpener opens files from the local filesystem.
var OSOpener = OpenerFunc(func(path string) (io.ReadCloser, error) { return os.Open(path) })

// Fingerprinter hashes whole files. It is safe for concurrent use.
type Fingerprinter struct {
	opener    Opener
	bytesRead atomic.Uint64
}

// New creates a Fingerprinter. A nil opener reads from the local filesystem.
func New(opener Opener) *Fingerprinter {
	if opener == nil {
		opener = OSOpener
	}
	return &Fingerprinter{opener: opener}
}

// Sum returns the SHA-1 digest of the file at path.
// The returned error is always a *ReadError.
func (f *Fingerprinter) Sum(path string) (types.Fingerprint, error) {
	r, err := f.opener.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Reason: ReasonOpen, Err: err}
	}
	defer func() { _ = r.Close() }()

	hasher := sha1.New() //nolint:gosec
	buf := make([]byte, blockSize)
	n, err := io.CopyBuffer(hasher, r, buf)
	f.bytesRead.Add(uint64(n))
	if err != nil {
		return nil, &ReadError{Path: path, Reason: ReasonRead, Err: err}
	}

	return hasher.Sum(nil), nil
}

// BytesRead returns the total number of bytes hashed so far.
func (f *Fingerprinter) BytesRead() uint64 { return f.bytesRead.Load() }
