package transport

import (
	"time"

	"github.com/sstallion/go-hid"
)

// HID is the production Transport over hidapi. Enumeration filters on the
// configured vendor/product so an absent keyboard is cheap to poll.
type HID struct {
	VendorID  uint16
	ProductID uint16
}

func (h *HID) Enumerate() ([]DeviceInfo, error) {
	var out []DeviceInfo
	err := hid.Enumerate(h.VendorID, h.ProductID, func(info *hid.DeviceInfo) error {
		out = append(out, DeviceInfo{
			Path:      info.Path,
			VendorID:  info.VendorID,
			ProductID: info.ProductID,
			UsagePage: info.UsagePage,
			Usage:     info.Usage,
			Product:   info.ProductStr,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (h *HID) Open(path string) (Handle, error) {
	dev, err := hid.OpenPath(path)
	if err != nil {
		return nil, err
	}
	return &hidHandle{dev: dev}, nil
}

type hidHandle struct {
	dev *hid.Device
}

// Write prepends the zero report id Raw HID expects; the frame itself is
// untouched.
func (h *hidHandle) Write(report []byte) (int, error) {
	buf := make([]byte, 1+len(report))
	copy(buf[1:], report)
	n, err := h.dev.Write(buf)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		n-- // exclude the report id byte
	}
	return n, nil
}

func (h *hidHandle) Read(buf []byte, timeout time.Duration) (int, error) {
	return h.dev.ReadWithTimeout(buf, timeout)
}

func (h *hidHandle) Close() error {
	return h.dev.Close()
}
