package sensor

import (
	"context"

	"github.com/moffa90/go-ad013/protocol"
)

// VerifyPassword performs the handshake with the given password.
// A rejected password is reported as a *protocol.DeviceError.
func (s *Sensor) VerifyPassword(ctx context.Context, pw protocol.Password) (protocol.Status, error) {
	params, err := protocol.BuildVerifyPasswordParams(pw)
	if err != nil {
		return 0, err
	}

	res, err := s.Execute(ctx, protocol.CmdVerifyPassword, params)
	if err != nil {
		return 0, err
	}

	if res.Status != protocol.StatusOK {
		return res.Status, &protocol.DeviceError{
			Operation: protocol.CmdVerifyPassword.Name,
			Status:    res.Status,
		}
	}

	return res.Status, nil
}

// Handshake verifies the configured password.
func (s *Sensor) Handshake(ctx context.Context) error {
	_, err := s.VerifyPassword(ctx, s.config.Password)
	return err
}

// GetImage asks the sensor to capture a finger image. The status is returned
// as is: StatusNoFinger is a normal outcome while polling.
func (s *Sensor) GetImage(ctx context.Context) (protocol.Status, error) {
	res, err := s.Execute(ctx, protocol.CmdGetImage, nil)
	if err != nil {
		return 0, err
	}
	return res.Status, nil
}

// GenChar generates a template from the captured image into the char buffer.
func (s *Sensor) GenChar(ctx context.Context, buffer byte) (protocol.Status, error) {
	params, err := protocol.BuildGenCharParams(buffer)
	if err != nil {
		return 0, err
	}

	res, err := s.Execute(ctx, protocol.CmdGenChar, params)
	if err != nil {
		return 0, err
	}
	return res.Status, nil
}

// Search looks up the template in the char buffer within [start, end].
// The SearchResult is only set when the status is StatusOK.
func (s *Sensor) Search(ctx context.Context, buffer byte, start, end uint16) (*protocol.SearchResult, protocol.Status, error) {
	params, err := protocol.BuildSearchParams(buffer, start, end)
	if err != nil {
		return nil, 0, err
	}

	res, err := s.Execute(ctx, protocol.CmdSearch, params)
	if err != nil {
		return nil, 0, err
	}

	if res.Status != protocol.StatusOK {
		return nil, res.Status, nil
	}

	result, err := protocol.ParseSearchResponse(res.Payload)
	if err != nil {
		return nil, res.Status, err
	}
	return result, res.Status, nil
}

// Submit sends an arbitrary instruction with free-form parameters.
// Known codes are still checked against the command table.
func (s *Sensor) Submit(ctx context.Context, code byte, params *protocol.Params) (*Result, error) {
	cmd, _ := protocol.LookupCommand(code)
	return s.Execute(ctx, cmd, params)
}

// ClearTemplate would delete one template from the database.
func (s *Sensor) ClearTemplate(ctx context.Context, id uint16) error {
	return ErrNotImplemented
}

// ClearUserTemplates would delete the user templates (ids above 19).
func (s *Sensor) ClearUserTemplates(ctx context.Context) error {
	return ErrNotImplemented
}

// ClearSecurityOfficerTemplates would delete the Security Officer templates (ids 0-19).
func (s *Sensor) ClearSecurityOfficerTemplates(ctx context.Context) error {
	return ErrNotImplemented
}

// Enroll would capture and store a new finger, returning its template id.
func (s *Sensor) Enroll(ctx context.Context, securityOfficer bool) (uint16, error) {
	return 0, ErrNotImplemented
}
