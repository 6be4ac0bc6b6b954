package dns

import "strings"

const (
	bufferSize  = 512
	maxJumps    = 5
	maxLabelLen = 0x3f
)

// Buffer is a fixed 512-byte DNS packet buffer with a read/write cursor.
// It is the sole I/O surface for the wire codec: every header, question,
// and record read or write goes through it.
type Buffer struct {
	buf [bufferSize]byte
	pos int
}

// NewBuffer returns an empty, zeroed 512-byte buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Pos returns the current cursor position.
func (b *Buffer) Pos() int {
	return b.pos
}

// Seek moves the cursor to an absolute position.
func (b *Buffer) Seek(pos int) error {
	if pos > bufferSize {
		return ErrEndOfBuffer
	}
	b.pos = pos
	return nil
}

// Step advances the cursor by n bytes without touching the underlying data.
func (b *Buffer) Step(n int) error {
	if b.pos+n > bufferSize {
		return ErrEndOfBuffer
	}
	b.pos += n
	return nil
}

// Bytes exposes the raw 512-byte backing array for socket I/O (recv_from
// writes directly into it; send_to reads the written prefix back out).
func (b *Buffer) Bytes() []byte {
	return b.buf[:]
}

// Written returns the bytes written so far, i.e. buf[0:pos].
func (b *Buffer) Written() []byte {
	return b.buf[:b.pos]
}

// Get reads a single byte at an absolute position without advancing pos.
func (b *Buffer) Get(pos int) (byte, error) {
	if pos >= bufferSize {
		return 0, ErrEndOfBuffer
	}
	return b.buf[pos], nil
}

// GetRange reads len bytes starting at pos without advancing pos. The
// bound is pos+len <= size, so an exactly-fitting read at the buffer's
// tail succeeds rather than being rejected.
func (b *Buffer) GetRange(pos, length int) ([]byte, error) {
	if pos+length > bufferSize {
		return nil, ErrEndOfBuffer
	}
	return b.buf[pos : pos+length], nil
}

func (b *Buffer) readByte() (byte, error) {
	if b.pos >= bufferSize {
		return 0, ErrEndOfBuffer
	}
	v := b.buf[b.pos]
	b.pos++
	return v, nil
}

// ReadU8 reads and advances past a single byte.
func (b *Buffer) ReadU8() (uint8, error) {
	return b.readByte()
}

// ReadU16 reads a big-endian uint16 and advances the cursor.
func (b *Buffer) ReadU16() (uint16, error) {
	hi, err := b.readByte()
	if err != nil {
		return 0, err
	}
	lo, err := b.readByte()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// ReadU32 reads a big-endian uint32 and advances the cursor.
func (b *Buffer) ReadU32() (uint32, error) {
	var v uint32
	for i := 0; i < 4; i++ {
		by, err := b.readByte()
		if err != nil {
			return 0, err
		}
		v = v<<8 | uint32(by)
	}
	return v, nil
}

// ReadU128 reads 16 big-endian bytes and advances the cursor. Nothing in
// this codec currently carries a 128-bit wire field; it exists alongside
// ReadU8/16/32 as a general buffer primitive.
func (b *Buffer) ReadU128() ([16]byte, error) {
	var v [16]byte
	for i := 0; i < 16; i++ {
		by, err := b.readByte()
		if err != nil {
			return v, err
		}
		v[i] = by
	}
	return v, nil
}

// ReadRange borrows length bytes from the cursor and advances past them.
func (b *Buffer) ReadRange(length int) ([]byte, error) {
	if b.pos+length > bufferSize {
		return nil, ErrEndOfBuffer
	}
	v := b.buf[b.pos : b.pos+length]
	b.pos += length
	return v, nil
}

// WriteU8 writes a single byte and advances the cursor.
func (b *Buffer) WriteU8(v uint8) error {
	if b.pos >= bufferSize {
		return ErrEndOfBuffer
	}
	b.buf[b.pos] = v
	b.pos++
	return nil
}

// WriteU16 writes a big-endian uint16 and advances the cursor.
func (b *Buffer) WriteU16(v uint16) error {
	if err := b.WriteU8(byte(v >> 8)); err != nil {
		return err
	}
	return b.WriteU8(byte(v))
}

// WriteU32 writes a big-endian uint32 and advances the cursor.
func (b *Buffer) WriteU32(v uint32) error {
	if err := b.WriteU8(byte(v >> 24)); err != nil {
		return err
	}
	if err := b.WriteU8(byte(v >> 16)); err != nil {
		return err
	}
	if err := b.WriteU8(byte(v >> 8)); err != nil {
		return err
	}
	return b.WriteU8(byte(v))
}

// WriteRange writes raw bytes at the cursor and advances past them.
func (b *Buffer) WriteRange(v []byte) error {
	end := b.pos + len(v)
	if end > bufferSize {
		return ErrEndOfBuffer
	}
	copy(b.buf[b.pos:end], v)
	b.pos = end
	return nil
}

// ReadQName decodes a dotted domain name per RFC 1035 §4.1.4, following
// compression pointers. A label-length byte whose top two bits are set
// (0xC0) is a pointer: the next byte supplies the low 8 bits of a 14-bit
// offset, and reading resumes at that offset. The cursor is advanced past
// the two pointer bytes only for the first pointer followed in a given
// call; later pointers in the same chain do not move the external cursor
// again. The chain is capped at 5 jumps. Every label is lowercased.
func (b *Buffer) ReadQName() (string, error) {
	pos := b.pos
	jumped := false
	jumps := 0

	var sb strings.Builder
	delim := ""

	for {
		if jumps > maxJumps {
			return "", &JumpLimitError{Limit: maxJumps}
		}

		lenByte, err := b.Get(pos)
		if err != nil {
			return "", err
		}

		if lenByte&0xC0 == 0xC0 {
			if !jumped {
				if err := b.Seek(pos + 2); err != nil {
					return "", err
				}
			}
			b2, err := b.Get(pos + 1)
			if err != nil {
				return "", err
			}
			offset := (uint16(lenByte)^0xC0)<<8 | uint16(b2)
			pos = int(offset)
			jumped = true
			jumps++
			continue
		}

		pos++
		if lenByte == 0 {
			break
		}

		sb.WriteString(delim)
		label, err := b.GetRange(pos, int(lenByte))
		if err != nil {
			return "", err
		}
		sb.WriteString(strings.ToLower(string(label)))
		delim = "."
		pos += int(lenByte)
	}

	if !jumped {
		if err := b.Seek(pos); err != nil {
			return "", err
		}
	}

	return sb.String(), nil
}

// WriteQName encodes a dotted name as length-prefixed labels terminated by
// a zero byte. No compression is produced on write.
func (b *Buffer) WriteQName(name string) error {
	for _, label := range strings.Split(name, ".") {
		if len(label) > maxLabelLen {
			return ErrSingleLabelLimit
		}
		if err := b.WriteU8(uint8(len(label))); err != nil {
			return err
		}
		if err := b.WriteRange([]byte(label)); err != nil {
			return err
		}
	}
	return b.WriteU8(0)
}
