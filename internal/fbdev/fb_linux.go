package fbdev

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Framebuffer ioctls from linux/fb.h.
const (
	fbioGetVScreenInfo = 0x4600
	fbioPutVScreenInfo = 0x4601
	fbioGetFScreenInfo = 0x4602
	fbioPanDisplay     = 0x4606
	// FBIO_WAITFORVSYNC = _IOW('F', 0x20, __u32)
	fbioWaitForVsync = 0x40044620
)

// Device is an open, memory-mapped framebuffer.
type Device struct {
	fd    int
	path  string
	vinfo VarScreenInfo
	orig  VarScreenInfo
	fix   FixScreenInfo
	mode  Mode
	mem   []byte
	front int
	vsync bool
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Open opens the framebuffer at path, tries to double its virtual height
// for page flipping and maps its memory.
func Open(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	d := &Device{fd: fd, path: path, vsync: true}

	if err := ioctl(fd, fbioGetVScreenInfo, unsafe.Pointer(&d.vinfo)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("FBIOGET_VSCREENINFO %s: %w", path, err)
	}
	d.orig = d.vinfo

	if d.vinfo.YRes > 0 && d.vinfo.YResVirtual < 2*d.vinfo.YRes {
		want := d.vinfo
		want.YResVirtual = 2 * want.YRes
		want.YOffset = 0
		// Drivers without panning reject this; single buffering remains.
		if ioctl(fd, fbioPutVScreenInfo, unsafe.Pointer(&want)) == nil {
			_ = ioctl(fd, fbioGetVScreenInfo, unsafe.Pointer(&d.vinfo))
		}
	}

	if err := ioctl(fd, fbioGetFScreenInfo, unsafe.Pointer(&d.fix)); err != nil {
		d.restore()
		unix.Close(fd)
		return nil, fmt.Errorf("FBIOGET_FSCREENINFO %s: %w", path, err)
	}

	d.mode, err = ModeOf(d.vinfo, d.fix)
	if err != nil {
		d.restore()
		unix.Close(fd)
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	size := int(d.fix.LineLength) * int(d.vinfo.YResVirtual)
	if size <= 0 || size > int(d.fix.SmemLen) {
		size = int(d.fix.SmemLen)
	}
	d.mem, err = unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		d.restore()
		unix.Close(fd)
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return d, nil
}

// Mode returns the active mode.
func (d *Device) Mode() Mode { return d.mode }

// BackBuffer returns the memory of the buffer that is not being scanned out.
// With a single buffer it is the visible one.
func (d *Device) BackBuffer() []byte {
	frame := int(d.fix.LineLength) * int(d.vinfo.YRes)
	if d.mode.Buffers < 2 {
		return d.mem[:frame]
	}
	back := 1 - d.front
	return d.mem[back*frame : (back+1)*frame]
}

// Flip presents the back buffer by panning to it. A single-buffered device
// only waits for vsync.
func (d *Device) Flip() error {
	if d.mode.Buffers >= 2 {
		back := 1 - d.front
		pan := d.vinfo
		pan.XOffset = 0
		pan.YOffset = uint32(back) * d.vinfo.YRes
		if err := ioctl(d.fd, fbioPanDisplay, unsafe.Pointer(&pan)); err != nil {
			return fmt.Errorf("FBIOPAN_DISPLAY %s: %w", d.path, err)
		}
		d.front = back
	}
	return d.WaitVSync()
}

// WaitVSync blocks until the next vertical blank. Drivers that do not
// implement the wait are remembered and skipped afterwards.
func (d *Device) WaitVSync() error {
	if !d.vsync {
		return nil
	}
	var crtc uint32
	err := ioctl(d.fd, fbioWaitForVsync, unsafe.Pointer(&crtc))
	if errors.Is(err, unix.ENOTTY) || errors.Is(err, unix.EINVAL) {
		d.vsync = false
		return nil
	}
	if err != nil {
		return fmt.Errorf("FBIO_WAITFORVSYNC %s: %w", d.path, err)
	}
	return nil
}

func (d *Device) restore() {
	if d.orig.YResVirtual != d.vinfo.YResVirtual || d.vinfo.YOffset != 0 {
		orig := d.orig
		_ = ioctl(d.fd, fbioPutVScreenInfo, unsafe.Pointer(&orig))
	}
}

// Close unmaps the memory, restores the original virtual size and closes
// the device.
func (d *Device) Close() error {
	var errs []error
	if d.mem != nil {
		if err := unix.Munmap(d.mem); err != nil {
			errs = append(errs, fmt.Errorf("munmap %s: %w", d.path, err))
		}
		d.mem = nil
	}
	d.restore()
	if err := unix.Close(d.fd); err != nil {
		errs = append(errs, fmt.Errorf("close %s: %w", d.path, err))
	}
	return errors.Join(errs...)
}
