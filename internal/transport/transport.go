package transport

import "time"

// DeviceInfo describes one enumerated HID interface.
type DeviceInfo struct {
	Path      string
	VendorID  uint16
	ProductID uint16
	UsagePage uint16
	Usage     uint16
	Product   string
}

// Match selects the keyboard's Raw HID interface among enumerated devices.
type Match struct {
	VendorID  uint16
	ProductID uint16
	UsagePage uint16
	Usage     uint16
}

func (m Match) Matches(d DeviceInfo) bool {
	return d.VendorID == m.VendorID &&
		d.ProductID == m.ProductID &&
		d.UsagePage == m.UsagePage &&
		d.Usage == m.Usage
}

// Transport is the device discovery and open contract.
type Transport interface {
	Enumerate() ([]DeviceInfo, error)
	Open(path string) (Handle, error)
}

// Handle is one open connection to the peripheral. Write sends a whole
// 32-byte report atomically. Read blocks at most timeout and may return
// zero bytes. Close is best effort.
type Handle interface {
	Write(report []byte) (int, error)
	Read(buf []byte, timeout time.Duration) (int, error)
	Close() error
}
