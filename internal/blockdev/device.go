// Package blockdev implements the byte-addressed storage backing ExtLikeFS:
// a fixed-size backing store (a host file, or an in-memory buffer for
// tests) plus the driver contract - read(addr, n), write(addr, bytes),
// clear(addr, n) - at byte granularity rather than block-multiple
// granularity: the filesystem above decides block boundaries, the driver
// just moves bytes.
package blockdev

import (
	"fmt"
	"io"
	"os"

	"github.com/mihailBz/ExtLikeFS/internal/fserrors"
	"github.com/xaionaro-go/bytesextra"
)

// Device is a fixed-size backing store reachable as an io.ReadWriteSeeker.
type Device struct {
	stream io.ReadWriteSeeker
	size   int64
}

// Size returns the fixed size of the backing store, in bytes.
func (d *Device) Size() int64 {
	return d.size
}

// NewInMemory creates a Device backed by a zero-filled in-memory buffer
// rather than a real file, for fixtures and tests.
func NewInMemory(size int64) *Device {
	buf := make([]byte, size)
	return &Device{stream: bytesextra.NewReadWriteSeeker(buf), size: size}
}

// Create makes a new zero-filled backing file of the given size at path,
// overwriting anything already there.
func Create(path string, size int64) (*Device, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, err
	}
	return &Device{stream: f, size: size}, nil
}

// Open reuses an existing backing file at path. Its length must match size
// exactly; otherwise this fails with fserrors.InvalidSize, mirroring
// device.py's StorageDevice(use_existing=True) check.
func Open(path string, size int64) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() != size {
		f.Close()
		return nil, fserrors.InvalidSize.WithMessage(
			fmt.Sprintf("existing image is %d bytes, expected %d", info.Size(), size),
		)
	}
	return &Device{stream: f, size: size}, nil
}

// Close releases the backing store if it's a real file; in-memory devices
// are no-ops.
func (d *Device) Close() error {
	if closer, ok := d.stream.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// Driver: the byte-addressed read/write/clear contract.

// Driver is the block driver collaborator: a byte-addressable
// read/write/clear interface over a fixed-size Device.
type Driver struct {
	device *Device
}

// NewDriver wraps a Device in the byte-addressed driver contract.
func NewDriver(device *Device) *Driver {
	return &Driver{device: device}
}

func (drv *Driver) checkRange(addr, n int64) error {
	if addr < 0 || n < 0 || addr+n > drv.device.size {
		return fserrors.InvalidSize.WithMessage(
			fmt.Sprintf("range [%d, %d) out of bounds for %d-byte device", addr, addr+n, drv.device.size),
		)
	}
	return nil
}

// Read returns the n bytes starting at addr.
func (drv *Driver) Read(addr int64, n int64) ([]byte, error) {
	if err := drv.checkRange(addr, n); err != nil {
		return nil, err
	}
	if _, err := drv.device.stream.Seek(addr, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(drv.device.stream, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Write stores data starting at addr, all-or-nothing with respect to the
// requested range: either every byte lands, or none of the call's effects
// are observable through Read (the range check happens before any seek).
func (drv *Driver) Write(addr int64, data []byte) error {
	if err := drv.checkRange(addr, int64(len(data))); err != nil {
		return err
	}
	if _, err := drv.device.stream.Seek(addr, io.SeekStart); err != nil {
		return err
	}
	_, err := drv.device.stream.Write(data)
	return err
}

// Clear overwrites the n bytes starting at addr with zeroes.
func (drv *Driver) Clear(addr int64, n int64) error {
	if err := drv.checkRange(addr, n); err != nil {
		return err
	}
	return drv.Write(addr, make([]byte, n))
}
