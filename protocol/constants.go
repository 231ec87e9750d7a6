package protocol

// Frame structure constants for the AD-013 serial protocol.
//
//	[EF 01][DEVID(4)][FLAG][LEN_H][LEN_L][CODE][DATA...][SUM_H][SUM_L]
const (
	// Preamble0 and Preamble1 open every frame in both directions
	Preamble0 = 0xEF
	Preamble1 = 0x01

	// FlagCommand marks a host to device command packet
	FlagCommand = 0x01

	// FlagAck marks a device acknowledgement packet
	FlagAck = 0x07

	// HeaderSize is preamble(2) + device id(4) + flag(1) + length(2) + code(1)
	HeaderSize = 10

	// ChecksumSize is the size of the trailing checksum field
	ChecksumSize = 2

	// MinFrameSize is the smallest valid frame: a header plus checksum and no payload
	MinFrameSize = HeaderSize + ChecksumSize

	// LengthOverhead is what the length field counts besides the payload: code(1) + checksum(2)
	LengthOverhead = 3

	// MaxPayloadSize is the largest payload the 16-bit length field can describe
	MaxPayloadSize = 0xFFFF - LengthOverhead

	// EchoPrefixSize is how many leading bytes of a response must echo the request
	EchoPrefixSize = 5

	// DeviceIDSize is the size of the device address
	DeviceIDSize = 4

	// PasswordSize is the size of the handshake password
	PasswordSize = 4
)

// Field offsets inside a frame.
const (
	OffsetPreamble = 0
	OffsetDeviceID = 2
	OffsetFlag     = 6
	OffsetLength   = 7
	OffsetCode     = 9
	OffsetData     = 10
)

// MaxParamsSize is the default capacity of a parameter buffer.
const MaxParamsSize = 20

// DefaultResponseBufferSize bounds how many bytes are accumulated for one response.
const DefaultResponseBufferSize = 64

// Template database layout.
const (
	// BufferSlot1 is the char buffer used to stage a generated template
	BufferSlot1 = 0x01

	// MaxTemplateID is the last template slot searched by default
	MaxTemplateID = 99

	// MaxSecurityOfficerID is the last template slot reserved for Security Officer fingers
	MaxSecurityOfficerID = 19

	// SearchResponseSize is the payload size of a successful search: page id(2) + score(2)
	SearchResponseSize = 4
)

// Status is a confirmation code reported by the sensor in an ACK frame.
type Status byte

// Status codes reported by the sensor.
// 0x20 - 0xEF are reserved.
const (
	StatusOK                     Status = 0x00
	StatusError                  Status = 0x01
	StatusNoFinger               Status = 0x02
	StatusImageFail              Status = 0x03
	StatusFeatureFailLightDry    Status = 0x04
	StatusFeatureFailDarkWet     Status = 0x05
	StatusFeatureFailAmorphous   Status = 0x06
	StatusFeatureFailMinutiae    Status = 0x07
	StatusFingerNotMatched       Status = 0x08
	StatusFingerNotFound         Status = 0x09
	StatusFeatureFailMerge       Status = 0x0A
	StatusDBRangeError           Status = 0x0B
	StatusTemplateReadError      Status = 0x0C
	StatusFeatureUploadFail      Status = 0x0D
	StatusDataReceiveError       Status = 0x0E
	StatusImageUploadFail        Status = 0x0F
	StatusDeleteFail             Status = 0x10
	StatusDBClearFail            Status = 0x11
	StatusLowPowerError          Status = 0x12
	StatusPasswordError          Status = 0x13
	StatusResetFail              Status = 0x14
	StatusImageIncomplete        Status = 0x15
	StatusOnlineUpgradeFail      Status = 0x16
	StatusImageStillData         Status = 0x17
	StatusFlashReadWriteError    Status = 0x18
	StatusGenericError           Status = 0x19
	StatusRegisterNumberError    Status = 0x1A
	StatusRegisterDistroError    Status = 0x1B
	StatusNotepadPageError       Status = 0x1C
	StatusPortOpFail             Status = 0x1D
	StatusAutoEnrollFail         Status = 0x1E
	StatusDBFull                 Status = 0x1F
	StatusDataReceivedOK         Status = 0xF0
	StatusDataContinueAck        Status = 0xF1
	StatusFlashSumError          Status = 0xF2
	StatusFlashFlagError         Status = 0xF3
	StatusFlashPacketLengthError Status = 0xF4
	StatusFlashCodeTooLong       Status = 0xF5
	StatusFlashError             Status = 0xF6
)

var statusNames = map[Status]string{
	StatusOK:                     "ok",
	StatusError:                  "packet receive error",
	StatusNoFinger:               "no finger on sensor",
	StatusImageFail:              "image capture failed",
	StatusFeatureFailLightDry:    "image too dry or light",
	StatusFeatureFailDarkWet:     "image too wet or dark",
	StatusFeatureFailAmorphous:   "image too amorphous",
	StatusFeatureFailMinutiae:    "too few minutiae",
	StatusFingerNotMatched:       "finger not matched",
	StatusFingerNotFound:         "finger not found",
	StatusFeatureFailMerge:       "feature merge failed",
	StatusDBRangeError:           "template id out of range",
	StatusTemplateReadError:      "template read error",
	StatusFeatureUploadFail:      "feature upload failed",
	StatusDataReceiveError:       "cannot receive data",
	StatusImageUploadFail:        "image upload failed",
	StatusDeleteFail:             "template delete failed",
	StatusDBClearFail:            "template database clear failed",
	StatusLowPowerError:          "cannot enter low power mode",
	StatusPasswordError:          "wrong password",
	StatusResetFail:              "reset failed",
	StatusImageIncomplete:        "image incomplete",
	StatusOnlineUpgradeFail:      "online upgrade failed",
	StatusImageStillData:         "residual image data",
	StatusFlashReadWriteError:    "flash read/write error",
	StatusGenericError:           "undefined error",
	StatusRegisterNumberError:    "invalid register number",
	StatusRegisterDistroError:    "wrong register distribution number",
	StatusNotepadPageError:       "notepad page number error",
	StatusPortOpFail:             "port operation failed",
	StatusAutoEnrollFail:         "auto enroll failed",
	StatusDBFull:                 "template database full",
	StatusDataReceivedOK:         "data received",
	StatusDataContinueAck:        "continue data",
	StatusFlashSumError:          "flash checksum error",
	StatusFlashFlagError:         "flash flag error",
	StatusFlashPacketLengthError: "flash packet length error",
	StatusFlashCodeTooLong:       "flash code too long",
	StatusFlashError:             "flash error",
}

// String returns a human-readable name for the status code.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	if s.Reserved() {
		return "reserved"
	}
	return "unknown"
}

// Reserved reports whether s falls in the range the device reserves.
func (s Status) Reserved() bool {
	return s >= 0x20 && s <= 0xEF
}

// Known reports whether s is one of the documented status codes.
func (s Status) Known() bool {
	_, ok := statusNames[s]
	return ok
}
