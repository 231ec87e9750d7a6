package protocol

// DeviceID is the 4-byte address of a sensor module.
type DeviceID [DeviceIDSize]byte

// Password is the 4-byte handshake password.
type Password [PasswordSize]byte

// Factory defaults. They are only reachable through DefaultDeviceID and
// DefaultPassword, which return copies.
var (
	defaultDeviceID = DeviceID{0xFF, 0xFF, 0xFF, 0xFF}
	defaultPassword = Password{0x00, 0x00, 0x00, 0x00}
)

// DefaultDeviceID returns the factory address of the module.
func DefaultDeviceID() DeviceID {
	return defaultDeviceID
}

// DefaultPassword returns the factory handshake password.
func DefaultPassword() Password {
	return defaultPassword
}

// Response is a decoded ACK frame.
type Response struct {
	// Flag is the packet identifier byte
	Flag byte

	// Status is the confirmation code
	Status Status

	// Payload holds the bytes between the code and the checksum, nil when empty
	Payload []byte
}

// SearchResult is the payload of a successful database search.
type SearchResult struct {
	// TemplateID is the page id of the matching template
	TemplateID uint16

	// Score is the match confidence reported by the sensor
	Score uint16
}
