// Package sensor drives an AD-013 capacitive fingerprint module.
//
// # Overview
//
// A Sensor owns one byte Transport and runs one transaction at a time:
//   - encode the command frame and write it in a single call
//   - read until a complete ACK frame is assembled or the retry budget is spent
//   - validate the echoed header and checksum, decode status and payload
//
// On top of Execute sit the named commands (VerifyPassword, GetImage, GenChar,
// Search) and the SearchFinger workflow.
//
// # Basic Usage
//
//	port, err := serialport.Open("/dev/ttyUSB0", 57600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s := sensor.New(port)
//	defer s.Close()
//
//	if err := s.Handshake(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	m, err := s.SearchFinger(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if m.Matched {
//	    fmt.Printf("template %d, score %d\n", m.TemplateID, m.Score)
//	}
//
// # Discovering the Speed
//
// FindSensor re-opens the link at 115200, 57600, 38400, 19200 and 9600 baud
// until the password handshake succeeds:
//
//	s, baud, err := sensor.FindSensor(ctx, serialport.Opener("/dev/ttyUSB0"), 0)
//
// # Configuration Options
//
//	s := sensor.New(port,
//	    sensor.WithDeviceID(protocol.DeviceID{0xFF, 0xFF, 0xFF, 0xFF}),
//	    sensor.WithPassword(protocol.Password{0, 0, 0, 0}),
//	    sensor.WithLogger(logger),
//	    sensor.WithMetrics(sensor.NewMetrics(prometheus.DefaultRegisterer)),
//	    sensor.WithReadTimeout(200*time.Millisecond),
//	    sensor.WithRetries(5),
//	)
//
// # Error Handling
//
// Errors are distinguishable with errors.Is and errors.As:
//   - ErrTimeout (*TimeoutError): the device stayed silent
//   - protocol.ErrFraming: the reply does not echo the request header
//   - protocol.ErrChecksum (*protocol.ChecksumError): the reply is corrupted
//   - ErrTransport (*TransportError): the byte stream failed
//   - *protocol.DeviceError: a valid reply carrying a failure status
//   - *AmbiguousStatusError: a status the operation does not document
//   - ErrNotImplemented: database maintenance and enrollment
//
// # Hardware Independence
//
// Any type with Read, Write and SetReadTimeout can serve as Transport. The
// transport/serialport package adapts go.bug.st/serial, transport/stub and
// transport/replay provide test doubles.
package sensor
