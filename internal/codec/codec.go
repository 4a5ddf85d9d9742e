// Package codec implements the self-describing byte encoding used for every
// value ExtLikeFS persists through the block driver: directory name->inode
// maps, inode records, symlink targets and regular-file contents. The
// allocation bitmap is the exception: it is stored as a bare ASCII '0'/'1'
// string with no codec framing.
//
// The wire format is a small tagged length-value scheme: one tag byte, a
// 4-byte big-endian length, then that many payload bytes. Composite values
// (lists, maps, inode records) nest further TLV-encoded values in their
// payload and are parsed by consuming values until the payload is exhausted.
// A completely zero-filled region decodes as "empty" (tag 0), which is how
// the inode table recognizes a free slot (see inode.Table.GetFree).
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/noxer/bytewriter"
)

const (
	tagEmpty byte = iota
	tagString
	tagInt
	tagStringList
	tagIntList
	tagStringIntMap
	tagInode
)

const headerSize = 1 + 4 // tag + big-endian uint32 length

// FileType enumerates the three kinds of filesystem object an inode can
// describe.
type FileType byte

const (
	TypeDirectory FileType = 'd'
	TypeRegular   FileType = 'f'
	TypeSymlink   FileType = 'l'
)

func (t FileType) String() string {
	return string(t)
}

// Inode is the in-memory, decoded form of an on-disk inode record.
type Inode struct {
	ID            int
	FileName      []string
	FileType      FileType
	LinksCnt      int
	FileSize      int
	DataBlocksMap []int
}

////////////////////////////////////////////////////////////////////////////////
// Low-level TLV primitives

func putHeader(tag byte, length int) []byte {
	header := make([]byte, headerSize)
	header[0] = tag
	binary.BigEndian.PutUint32(header[1:], uint32(length))
	return header
}

// readHeader parses the tag and payload length from the front of b. It
// returns the tag, the payload slice, and the number of bytes (header +
// payload) consumed.
func readHeader(b []byte) (byte, []byte, int, error) {
	if len(b) < headerSize {
		return 0, nil, 0, fmt.Errorf("codec: truncated value, need %d header bytes, got %d", headerSize, len(b))
	}
	tag := b[0]
	length := int(binary.BigEndian.Uint32(b[1:headerSize]))
	if headerSize+length > len(b) {
		return 0, nil, 0, fmt.Errorf("codec: truncated value, need %d payload bytes, got %d", length, len(b)-headerSize)
	}
	return tag, b[headerSize : headerSize+length], headerSize + length, nil
}

////////////////////////////////////////////////////////////////////////////////
// Empty / zero-slot sentinel

// IsEmpty reports whether a fixed-size region should be treated as holding no
// value at all. Per the on-disk contract, a slot is empty iff its first byte
// is zero; a real encoded value always starts with a nonzero tag.
func IsEmpty(slot []byte) bool {
	return len(slot) == 0 || slot[0] == tagEmpty
}

////////////////////////////////////////////////////////////////////////////////
// Strings

// EncodeString encodes s as a self-delimiting value.
func EncodeString(s string) []byte {
	return append(putHeader(tagString, len(s)), []byte(s)...)
}

// DecodeString decodes a string previously produced by EncodeString from the
// front of b, returning the decoded value and the number of bytes consumed.
func DecodeString(b []byte) (string, int, error) {
	tag, payload, consumed, err := readHeader(b)
	if err != nil {
		return "", 0, err
	}
	if tag != tagString {
		return "", 0, fmt.Errorf("codec: expected string tag, got %d", tag)
	}
	return string(payload), consumed, nil
}

////////////////////////////////////////////////////////////////////////////////
// Integers

// EncodeInt encodes a single integer.
func EncodeInt(n int) []byte {
	payload := make([]byte, 8)
	binary.BigEndian.PutUint64(payload, uint64(int64(n)))
	return append(putHeader(tagInt, len(payload)), payload...)
}

// DecodeInt decodes an integer previously produced by EncodeInt.
func DecodeInt(b []byte) (int, int, error) {
	tag, payload, consumed, err := readHeader(b)
	if err != nil {
		return 0, 0, err
	}
	if tag != tagInt {
		return 0, 0, fmt.Errorf("codec: expected int tag, got %d", tag)
	}
	if len(payload) != 8 {
		return 0, 0, fmt.Errorf("codec: malformed int payload, want 8 bytes got %d", len(payload))
	}
	return int(int64(binary.BigEndian.Uint64(payload))), consumed, nil
}

////////////////////////////////////////////////////////////////////////////////
// Lists

// EncodeIntList encodes an ordered list of integers, used for a
// data_blocks_map.
func EncodeIntList(values []int) []byte {
	var payload []byte
	for _, v := range values {
		payload = append(payload, EncodeInt(v)...)
	}
	return append(putHeader(tagIntList, len(payload)), payload...)
}

// DecodeIntList decodes a value previously produced by EncodeIntList.
func DecodeIntList(b []byte) ([]int, int, error) {
	tag, payload, consumed, err := readHeader(b)
	if err != nil {
		return nil, 0, err
	}
	if tag != tagIntList {
		return nil, 0, fmt.Errorf("codec: expected int-list tag, got %d", tag)
	}
	values := make([]int, 0)
	offset := 0
	for offset < len(payload) {
		v, n, err := DecodeInt(payload[offset:])
		if err != nil {
			return nil, 0, err
		}
		values = append(values, v)
		offset += n
	}
	return values, consumed, nil
}

// EncodeStringList encodes an ordered list of strings, used for an inode's
// file_name list.
func EncodeStringList(values []string) []byte {
	var payload []byte
	for _, v := range values {
		payload = append(payload, EncodeString(v)...)
	}
	return append(putHeader(tagStringList, len(payload)), payload...)
}

// DecodeStringList decodes a value previously produced by EncodeStringList.
func DecodeStringList(b []byte) ([]string, int, error) {
	tag, payload, consumed, err := readHeader(b)
	if err != nil {
		return nil, 0, err
	}
	if tag != tagStringList {
		return nil, 0, fmt.Errorf("codec: expected string-list tag, got %d", tag)
	}
	values := make([]string, 0)
	offset := 0
	for offset < len(payload) {
		v, n, err := DecodeString(payload[offset:])
		if err != nil {
			return nil, 0, err
		}
		values = append(values, v)
		offset += n
	}
	return values, consumed, nil
}

////////////////////////////////////////////////////////////////////////////////
// Maps (directory payloads: name -> inode id)

// EncodeStringIntMap encodes a directory's name->inode-id map, emitting the
// entries in the sequence given by order. Keys of m that do not appear in
// order are not encoded, and names in order that are absent from m are
// skipped.
func EncodeStringIntMap(m map[string]int, order []string) []byte {
	var payload []byte
	for _, key := range order {
		val, ok := m[key]
		if !ok {
			continue
		}
		payload = append(payload, EncodeString(key)...)
		payload = append(payload, EncodeInt(val)...)
	}
	return append(putHeader(tagStringIntMap, len(payload)), payload...)
}

// DecodeStringIntMap decodes a value previously produced by
// EncodeStringIntMap, also returning the key order as encoded.
func DecodeStringIntMap(b []byte) (map[string]int, []string, int, error) {
	tag, payload, consumed, err := readHeader(b)
	if err != nil {
		return nil, nil, 0, err
	}
	if tag != tagStringIntMap {
		return nil, nil, 0, fmt.Errorf("codec: expected map tag, got %d", tag)
	}
	m := make(map[string]int)
	order := make([]string, 0)
	offset := 0
	for offset < len(payload) {
		key, n, err := DecodeString(payload[offset:])
		if err != nil {
			return nil, nil, 0, err
		}
		offset += n
		val, n, err := DecodeInt(payload[offset:])
		if err != nil {
			return nil, nil, 0, err
		}
		offset += n
		m[key] = val
		order = append(order, key)
	}
	return m, order, consumed, nil
}

////////////////////////////////////////////////////////////////////////////////
// Inode records

// EncodeInode encodes a full inode record as used by the inode table.
func EncodeInode(in Inode) []byte {
	var payload []byte
	payload = append(payload, EncodeInt(in.ID)...)
	payload = append(payload, EncodeString(string(in.FileType))...)
	payload = append(payload, EncodeInt(in.LinksCnt)...)
	payload = append(payload, EncodeInt(in.FileSize)...)
	payload = append(payload, EncodeStringList(in.FileName)...)
	payload = append(payload, EncodeIntList(in.DataBlocksMap)...)
	return append(putHeader(tagInode, len(payload)), payload...)
}

// DecodeInode decodes a value previously produced by EncodeInode. ok is
// false (with a nil error) if slot is the all-zero empty sentinel.
func DecodeInode(slot []byte) (record Inode, ok bool, err error) {
	if IsEmpty(slot) {
		return Inode{}, false, nil
	}

	tag, payload, _, err := readHeader(slot)
	if err != nil {
		return Inode{}, false, err
	}
	if tag != tagInode {
		return Inode{}, false, fmt.Errorf("codec: expected inode tag, got %d", tag)
	}

	offset := 0
	id, n, err := DecodeInt(payload[offset:])
	if err != nil {
		return Inode{}, false, err
	}
	offset += n

	ftype, n, err := DecodeString(payload[offset:])
	if err != nil {
		return Inode{}, false, err
	}
	offset += n
	if len(ftype) != 1 {
		return Inode{}, false, fmt.Errorf("codec: malformed file_type %q", ftype)
	}

	linksCnt, n, err := DecodeInt(payload[offset:])
	if err != nil {
		return Inode{}, false, err
	}
	offset += n

	fileSize, n, err := DecodeInt(payload[offset:])
	if err != nil {
		return Inode{}, false, err
	}
	offset += n

	fileNames, n, err := DecodeStringList(payload[offset:])
	if err != nil {
		return Inode{}, false, err
	}
	offset += n

	blocks, n, err := DecodeIntList(payload[offset:])
	if err != nil {
		return Inode{}, false, err
	}
	offset += n

	return Inode{
		ID:            id,
		FileName:      fileNames,
		FileType:      FileType(ftype[0]),
		LinksCnt:      linksCnt,
		FileSize:      fileSize,
		DataBlocksMap: blocks,
	}, true, nil
}

////////////////////////////////////////////////////////////////////////////////
// Fixed-size slot helpers

// WriteIntoSlot zero-fills dst and then writes encoded into its front. It
// fails if encoded does not fit in dst; the caller must treat this as the
// fatal "encoded value too large for its slot" error the data model
// mandates (see INODE_SIZE in the on-disk layout).
func WriteIntoSlot(dst []byte, encoded []byte) error {
	if len(encoded) > len(dst) {
		return fmt.Errorf(
			"codec: encoded value of %d bytes does not fit in %d-byte slot",
			len(encoded),
			len(dst),
		)
	}
	for i := range dst {
		dst[i] = 0
	}
	writer := bytewriter.New(dst)
	n, err := writer.Write(encoded)
	if err != nil {
		return fmt.Errorf("codec: writing into slot: %w", err)
	}
	if n != len(encoded) {
		return fmt.Errorf("codec: short write into slot: wrote %d of %d bytes", n, len(encoded))
	}
	return nil
}

// EmptyStringOverhead is the number of bytes EncodeString("") occupies. It's
// the codec-specific analogue of Python's len(pickle.dumps("")), used by the
// bitmap sizing calculation (internal/bitmap.SizeFor) to reproduce the
// original implementation's iterative "grow the bitmap region until it's big
// enough" loop.
var EmptyStringOverhead = len(EncodeString(""))
