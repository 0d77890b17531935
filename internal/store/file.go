// Package store is the single-writer record engine: append-create, linear
// scan and in-place rewrite over two fixed-record flat files, one for
// accounts and one for the transaction log. It assumes one active process;
// the service layer serializes callers above it.
package store

import (
	"fmt"
	"io"
	"os"

	"github.com/cmbank/corebank/internal/record"
)

// initFile creates the backing file with its header if it does not exist,
// and verifies the header if it does.
func initFile(path string, magic [4]byte) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		if _, err := f.Write(record.Header(magic)); err != nil {
			return fmt.Errorf("write header %s: %w", path, err)
		}
		return f.Sync()
	}
	return checkHeader(f, path, magic)
}

// checkHeader reads and validates the header of an already-open file.
func checkHeader(f *os.File, path string, magic [4]byte) error {
	hdr := make([]byte, record.HeaderSize)
	if _, err := f.ReadAt(hdr, 0); err != nil {
		return fmt.Errorf("read header %s: %w", path, err)
	}
	if err := record.CheckHeader(hdr, magic); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// openChecked opens path with flag and validates the header. The caller
// owns closing the handle on every exit path.
func openChecked(path string, magic [4]byte, flag int) (*os.File, error) {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := checkHeader(f, path, magic); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// readSlot reads one record-sized slot starting at the current position.
// io.EOF signals a clean end of file; a short tail is reported as an
// error because it means a torn append.
func readSlot(f *os.File, buf []byte) error {
	n, err := io.ReadFull(f, buf)
	if err == io.EOF {
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("short record read (%d of %d bytes): %w", n, len(buf), err)
	}
	return nil
}

// writeSlotAt overwrites the slot at offset and flushes it to disk before
// returning, so a successful return means the bytes reached the file.
func writeSlotAt(f *os.File, offset int64, buf []byte) error {
	if _, err := f.WriteAt(buf, offset); err != nil {
		return fmt.Errorf("write record at offset %d: %w", offset, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("flush record at offset %d: %w", offset, err)
	}
	return nil
}
