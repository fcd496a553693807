package switcher

import "errors"

// ErrNoEligibleDevice is returned by SelectNext when filtering leaves nothing
// to cycle through. It's a normal reportable outcome, not a crash condition.
var ErrNoEligibleDevice = errors.New("no matching devices found")

// FilterDevices returns the subsequence of devices that pass the filter,
// keeping the server's enumeration order.
func FilterDevices(devices []Device, filter *DeviceFilter) []Device {
	eligible := make([]Device, 0, len(devices))

	for _, dev := range devices {
		if filter.Eligible(dev) {
			eligible = append(eligible, dev)
		}
	}

	return eligible
}

// SelectNext picks the device to promote to default: the eligible entry after
// the one named by currentDefaultName, wrapping around past the end. When the
// current default is unknown or not eligible itself, the first eligible
// device is picked.
func SelectNext(devices []Device, currentDefaultName string, filter *DeviceFilter) (Device, error) {
	eligible := FilterDevices(devices, filter)
	if len(eligible) == 0 {
		return Device{}, ErrNoEligibleDevice
	}

	next := 0
	for i, dev := range eligible {
		if dev.Name == currentDefaultName {
			next = (i + 1) % len(eligible)
			break
		}
	}

	return eligible[next], nil
}
