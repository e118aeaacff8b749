package evdev

import (
	"encoding/binary"
	"errors"
	"io"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// RecordSize is the size of one kernel input_event on this platform: a
// timeval followed by type (u16), code (u16) and value (s32).
var RecordSize = int(unsafe.Sizeof(unix.Timeval{})) + 8

// Event is one decoded input_event record.
type Event struct {
	Time  time.Time
	Type  uint16
	Code  uint16
	Value int32
}

// Decode parses a single record. b must be at least RecordSize bytes.
func Decode(b []byte) Event {
	tv := RecordSize - 8
	var ev Event
	if tv == 16 {
		sec := int64(binary.NativeEndian.Uint64(b[0:8]))
		usec := int64(binary.NativeEndian.Uint64(b[8:16]))
		ev.Time = time.Unix(sec, usec*1000)
	} else {
		sec := int64(int32(binary.NativeEndian.Uint32(b[0:4])))
		usec := int64(int32(binary.NativeEndian.Uint32(b[4:8])))
		ev.Time = time.Unix(sec, usec*1000)
	}
	ev.Type = binary.NativeEndian.Uint16(b[tv : tv+2])
	ev.Code = binary.NativeEndian.Uint16(b[tv+2 : tv+4])
	ev.Value = int32(binary.NativeEndian.Uint32(b[tv+4 : tv+8]))
	return ev
}

// Encode writes ev into b in the kernel layout. It is the inverse of Decode
// and is used to synthesize device streams.
func Encode(b []byte, ev Event) {
	tv := RecordSize - 8
	usec := int64(ev.Time.Nanosecond() / 1000)
	sec := ev.Time.Unix()
	if ev.Time.IsZero() {
		sec, usec = 0, 0
	}
	if tv == 16 {
		binary.NativeEndian.PutUint64(b[0:8], uint64(sec))
		binary.NativeEndian.PutUint64(b[8:16], uint64(usec))
	} else {
		binary.NativeEndian.PutUint32(b[0:4], uint32(sec))
		binary.NativeEndian.PutUint32(b[4:8], uint32(usec))
	}
	binary.NativeEndian.PutUint16(b[tv:tv+2], ev.Type)
	binary.NativeEndian.PutUint16(b[tv+2:tv+4], ev.Code)
	binary.NativeEndian.PutUint32(b[tv+4:tv+8], uint32(ev.Value))
}

// Reader decodes whole records from a stream, carrying partial records
// across reads. Its buffer is allocated once.
type Reader struct {
	r    io.Reader
	buf  []byte
	have int
}

// ReaderBatch is the number of records requested per read.
const ReaderBatch = 64

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, buf: make([]byte, RecordSize*ReaderBatch)}
}

// Read blocks until at least one complete record is available and decodes
// up to len(out) records into out.
func (r *Reader) Read(out []Event) (int, error) {
	if len(out) == 0 {
		return 0, nil
	}
	for r.have < RecordSize {
		n, err := r.r.Read(r.buf[r.have:])
		r.have += n
		if err != nil {
			if r.have >= RecordSize {
				break
			}
			if errors.Is(err, io.EOF) && r.have > 0 {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
	}

	count := 0
	off := 0
	for count < len(out) && r.have-off >= RecordSize {
		out[count] = Decode(r.buf[off : off+RecordSize])
		off += RecordSize
		count++
	}
	r.have = copy(r.buf, r.buf[off:r.have])
	return count, nil
}
