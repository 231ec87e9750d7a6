package protocol

// ChecksumMask is the 16-bit mask used in checksum calculations
const ChecksumMask = 0xFFFF

// Checksum computes the 16-bit frame checksum: the sum of all bytes modulo 65536.
//
// Over a frame it covers every byte from the flag through the last payload byte,
// excluding the preamble, the device id and the checksum field itself.
// The modular sum does not detect reordered bytes.
func Checksum(data []byte) uint16 {
	var sum uint32
	for _, b := range data {
		sum += uint32(b)
	}
	return uint16(sum & ChecksumMask)
}

// frameChecksum computes the checksum of a frame whose payload ends at end.
func frameChecksum(frame []byte, end int) uint16 {
	return Checksum(frame[OffsetFlag:end])
}
