//go:build linux && (arm || arm64)

package bcmgpio

// Map opens device (normally /dev/mem) and maps BlockLen bytes starting at
// base+GPIOOffset.
func Map(device string, base uint64) (*Mapping, error) {
	return mapDevice(device, base)
}
