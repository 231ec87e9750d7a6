package protocol

import "fmt"

// VariableParams marks a command whose parameter size is not fixed.
const VariableParams = -1

// Command describes one instruction of the sensor: its code and the exact
// number of parameter bytes it takes.
type Command struct {
	// Name is used in logs and errors
	Name string

	// Code is the instruction code placed in the frame
	Code byte

	// ParamSize is the number of parameter bytes, or VariableParams
	ParamSize int
}

// Instruction codes.
const (
	CodeGetImage       = 0x01
	CodeGenChar        = 0x02
	CodeSearch         = 0x04
	CodeVerifyPassword = 0x13
)

// Command table.
var (
	// CmdGetImage captures a finger image into the image buffer
	CmdGetImage = Command{Name: "get image", Code: CodeGetImage, ParamSize: 0}

	// CmdGenChar generates a template from the image into a char buffer
	CmdGenChar = Command{Name: "generate char", Code: CodeGenChar, ParamSize: 1}

	// CmdSearch searches the template database with a char buffer
	CmdSearch = Command{Name: "search", Code: CodeSearch, ParamSize: 5}

	// CmdVerifyPassword performs the handshake password check
	CmdVerifyPassword = Command{Name: "verify password", Code: CodeVerifyPassword, ParamSize: PasswordSize}
)

var commands = map[byte]Command{
	CodeGetImage:       CmdGetImage,
	CodeGenChar:        CmdGenChar,
	CodeSearch:         CmdSearch,
	CodeVerifyPassword: CmdVerifyPassword,
}

// LookupCommand returns the table entry for code. Unknown codes yield a
// command with variable parameters.
func LookupCommand(code byte) (Command, bool) {
	if cmd, ok := commands[code]; ok {
		return cmd, true
	}
	return Command{Name: fmt.Sprintf("command 0x%02X", code), Code: code, ParamSize: VariableParams}, false
}

// Validate checks that params has the shape the command requires.
func (c Command) Validate(params *Params) error {
	if c.ParamSize == VariableParams {
		return nil
	}
	if n := params.Len(); n != c.ParamSize {
		return fmt.Errorf("%w: %s takes %d parameter bytes, got %d", ErrInvalidArgument, c.Name, c.ParamSize, n)
	}
	return nil
}

func (c Command) String() string {
	return c.Name
}

// BuildVerifyPasswordParams returns the parameters of a password handshake.
func BuildVerifyPasswordParams(pw Password) (*Params, error) {
	p := NewParams()
	if err := p.AppendN(pw[:], len(pw)); err != nil {
		return nil, err
	}
	return p, nil
}

// BuildGenCharParams returns the parameters of a GenChar into the given buffer.
func BuildGenCharParams(buffer byte) (*Params, error) {
	p := NewParams()
	if err := p.Append1(buffer); err != nil {
		return nil, err
	}
	return p, nil
}

// BuildSearchParams returns the parameters of a Search over [start, end].
//
// Parameter structure:
//
//	[BUFFER][START_H][START_L][END_H][END_L]
func BuildSearchParams(buffer byte, start, end uint16) (*Params, error) {
	if start > end {
		return nil, fmt.Errorf("%w: search start %d is after end %d", ErrInvalidArgument, start, end)
	}

	p := NewParams()
	if err := p.Append1(buffer); err != nil {
		return nil, err
	}
	if err := p.Append2(start); err != nil {
		return nil, err
	}
	if err := p.Append2(end); err != nil {
		return nil, err
	}
	return p, nil
}
