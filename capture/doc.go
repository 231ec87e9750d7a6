// Package capture reads and writes transcripts of sensor exchanges.
//
// A transcript is a text file holding hex-encoded frames, one per line,
// marked '>' for commands and '<' for the sensor's acknowledgements. Every
// frame is validated with the protocol codec while parsing, so a transcript
// that parses is safe to replay. Responses marked "<!" are kept raw, which
// lets a recording of a failing session reproduce its checksum errors and
// timeouts.
//
// # Example
//
//	# verify password
//	> EF01FFFFFFFF0100071300000000001B
//	< EF01FFFFFFFF07000300000A
//
// Transcripts are replayed against a Sensor by transport/replay.
package capture
