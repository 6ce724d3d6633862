// ABOUTME: Version and product identity constants
// ABOUTME: Reported in logs and the monitor handshake
package version

const (
	Version      = "0.1.0"
	Product      = "Voxmorph Voice Changer"
	Manufacturer = "Voxmorph"
)
