package evdev

import (
	"bytes"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl request encoding (Linux _IOC macro).
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocWrite = 1
	iocRead  = 2
)

func ioc(dir, typ, nr, size uint32) uintptr {
	return uintptr((dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNRShift) | (size << iocSizeShift))
}

// EVIOCGNAME(len) = _IOC(_IOC_READ, 'E', 0x06, len)
func evioCGName(size int) uintptr {
	return ioc(iocRead, 'E', 0x06, uint32(size))
}

// EVIOCGBIT(ev, len) = _IOC(_IOC_READ, 'E', 0x20 + ev, len)
func evioCGBit(ev, size int) uintptr {
	return ioc(iocRead, 'E', uint32(0x20+ev), uint32(size))
}

// EVIOCGABS(abs) = _IOR('E', 0x40 + abs, struct input_absinfo)
func evioCGAbs(abs int) uintptr {
	return ioc(iocRead, 'E', uint32(0x40+abs), uint32(unsafe.Sizeof(AbsInfo{})))
}

// EVIOCGRAB = _IOW('E', 0x90, int)
func evioCGrab() uintptr {
	return ioc(iocWrite, 'E', 0x90, uint32(unsafe.Sizeof(int32(0))))
}

func ioctl(fd, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// QueryCapabilities reads the device name, supported event codes and absolute axis
// ranges of an open device. A calibration failure is reported through
// Capabilities.RangeErr rather than as an error.
func QueryCapabilities(fd uintptr) (Capabilities, error) {
	var name [256]byte
	if err := ioctl(fd, evioCGName(len(name)), unsafe.Pointer(&name[0])); err != nil {
		return Capabilities{}, fmt.Errorf("EVIOCGNAME: %w", err)
	}
	n := bytes.IndexByte(name[:], 0)
	if n < 0 {
		n = len(name)
	}
	return queryBits(fd, NewCapabilities(string(name[:n])))
}

func queryBits(fd uintptr, caps Capabilities) (Capabilities, error) {
	if err := ioctl(fd, evioCGBit(0, len(caps.Types)), unsafe.Pointer(&caps.Types[0])); err != nil {
		return caps, fmt.Errorf("EVIOCGBIT(0): %w", err)
	}
	if caps.Types.Has(EvKey) {
		if err := ioctl(fd, evioCGBit(EvKey, len(caps.Keys)), unsafe.Pointer(&caps.Keys[0])); err != nil {
			return caps, fmt.Errorf("EVIOCGBIT(EV_KEY): %w", err)
		}
	}
	if caps.Types.Has(EvRel) {
		if err := ioctl(fd, evioCGBit(EvRel, len(caps.Rel)), unsafe.Pointer(&caps.Rel[0])); err != nil {
			return caps, fmt.Errorf("EVIOCGBIT(EV_REL): %w", err)
		}
	}
	if caps.Types.Has(EvAbs) {
		if err := ioctl(fd, evioCGBit(EvAbs, len(caps.Abs)), unsafe.Pointer(&caps.Abs[0])); err != nil {
			return caps, fmt.Errorf("EVIOCGBIT(EV_ABS): %w", err)
		}
		for code := 0; code < AbsCnt; code++ {
			if !caps.Abs.Has(code) {
				continue
			}
			var info AbsInfo
			if err := ioctl(fd, evioCGAbs(code), unsafe.Pointer(&info)); err != nil {
				caps.RangeErr = fmt.Errorf("EVIOCGABS(%#x): %w", code, err)
				continue
			}
			caps.Ranges[code] = info
		}
	}
	return caps, nil
}

// Grab requests exclusive access so events are not delivered to other
// readers such as the console.
func Grab(fd uintptr, grab bool) error {
	var v int32
	if grab {
		v = 1
	}
	// EVIOCGRAB takes the int by value.
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, evioCGrab(), uintptr(v))
	if errno != 0 {
		return errno
	}
	return nil
}
