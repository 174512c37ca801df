package glmesh

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy. Every error returned by glmesh matches exactly one of
// ErrInvalidArgument, ErrInvalidState or ErrGL under errors.Is.
var (
	// ErrInvalidArgument is returned when a constructor receives unusable input.
	ErrInvalidArgument = errors.New("glmesh: invalid argument")

	// ErrInvalidState is returned when an operation is not valid for the
	// current state of a resource.
	ErrInvalidState = errors.New("glmesh: invalid state")

	// ErrGL matches every *GLError.
	ErrGL = errors.New("glmesh: GL error")
)

// Argument and state errors.
var (
	// ErrNoVertexBuffers is returned when a mesh is created without vertex buffers.
	ErrNoVertexBuffers = fmt.Errorf("%w: must pass at least one vertex buffer", ErrInvalidArgument)

	// ErrNilDriver is returned when a resource is created without a driver.
	ErrNilDriver = fmt.Errorf("%w: driver is nil", ErrInvalidArgument)

	// ErrMeshReleased is returned when drawing a mesh after Release.
	ErrMeshReleased = fmt.Errorf("%w: tried to draw a released mesh", ErrInvalidState)

	// ErrBufferReleased is returned when writing to a buffer after Release.
	ErrBufferReleased = fmt.Errorf("%w: buffer has been released", ErrInvalidState)

	// ErrNegativeCount is returned when a buffer reports a negative vertex or
	// element count.
	ErrNegativeCount = fmt.Errorf("%w: buffer reported a negative count", ErrInvalidState)

	// ErrZeroName is returned when glGenVertexArrays or glGenBuffers yields
	// object name 0 without reporting a GL error.
	ErrZeroName = fmt.Errorf("%w: driver returned object name 0", ErrInvalidState)
)

// ErrorCode is a GL error code as returned by glGetError.
//
// ErrorCode implements error so that a *GLError can be matched against a
// specific code:
//
//	if errors.Is(err, glmesh.OutOfMemory) { ... }
type ErrorCode uint32

// GL error codes. StackOverflow, StackUnderflow and ContextLost are not part
// of GLES 3.0 but may still be reported by desktop drivers.
const (
	NoError                     ErrorCode = glNoError
	InvalidEnum                 ErrorCode = glInvalidEnum
	InvalidValue                ErrorCode = glInvalidValue
	InvalidOperation            ErrorCode = glInvalidOperation
	StackOverflow               ErrorCode = 0x0503
	StackUnderflow              ErrorCode = 0x0504
	OutOfMemory                 ErrorCode = glOutOfMemory
	InvalidFramebufferOperation ErrorCode = glInvalidFramebufferOperation
	ContextLost                 ErrorCode = 0x0507
)

// String returns the symbolic description of the code, in the wording of
// gluErrorString.
func (c ErrorCode) String() string {
	switch c {
	case NoError:
		return "no error"
	case InvalidEnum:
		return "invalid enumerant"
	case InvalidValue:
		return "invalid value"
	case InvalidOperation:
		return "invalid operation"
	case StackOverflow:
		return "stack overflow"
	case StackUnderflow:
		return "stack underflow"
	case OutOfMemory:
		return "out of memory"
	case InvalidFramebufferOperation:
		return "invalid framebuffer operation"
	case ContextLost:
		return "context lost"
	default:
		return "unknown error"
	}
}

// Error implements error.
func (c ErrorCode) Error() string {
	return fmt.Sprintf("%s (%d)", c.String(), uint32(c))
}

// maxDrainedErrors bounds DrainErrors against drivers that keep reporting
// an error forever (some report GL_CONTEXT_LOST on every poll).
const maxDrainedErrors = 64

// DrainErrors polls d.GetError until it reports GL_NO_ERROR and returns the
// distinct codes seen, oldest first. It returns nil when nothing was pending.
//
// The GL error state is shared by the whole context: a partial drain leaves
// codes behind that the next caller would wrongly attribute to its own call,
// so the queue is emptied even though only the first code ends up in
// GLError.Code. Polling stops after 64 calls to GetError; codes still
// queued at that point stay pending. A real context keeps at most one flag
// per error kind, so only a driver that reports the same error on every
// poll reaches the limit.
func DrainErrors(d Driver) []ErrorCode {
	code := ErrorCode(d.GetError())
	if code == NoError {
		return nil
	}

	codes := []ErrorCode{code}
	for range maxDrainedErrors - 1 {
		code = ErrorCode(d.GetError())
		if code == NoError {
			break
		}
		if !containsCode(codes, code) {
			codes = append(codes, code)
		}
	}
	return codes
}

func containsCode(codes []ErrorCode, c ErrorCode) bool {
	for _, x := range codes {
		if x == c {
			return true
		}
	}
	return false
}

// GLError is a GL failure attributed to a specific call.
type GLError struct {
	// Reason describes what the failed call was trying to do.
	Reason string

	// API is the name of the GL entry point that reported the error.
	API string

	// Codes holds every drained code in the order the driver returned
	// them. It is never empty.
	Codes []ErrorCode
}

// Code returns the first drained error code.
func (e *GLError) Code() ErrorCode {
	if len(e.Codes) == 0 {
		return NoError
	}
	return e.Codes[0]
}

// Error implements error.
//
// Format: "<reason>: <api>: <description> (<code>), <description> (<code>)".
func (e *GLError) Error() string {
	return formatErrorMessage(e.Reason, e.API, e.Codes)
}

// Is reports whether target is ErrGL or one of the drained codes.
func (e *GLError) Is(target error) bool {
	if target == ErrGL {
		return true
	}
	if c, ok := target.(ErrorCode); ok {
		return containsCode(e.Codes, c)
	}
	return false
}

func formatErrorMessage(reason, api string, codes []ErrorCode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: ", reason, api)
	for i, c := range codes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.Error())
	}
	return b.String()
}

// FailOnError drains pending GL errors and returns them as a *GLError
// attributed to api, or nil if no error was pending.
//
// Call it immediately after every state-mutating GL call.
func FailOnError(d Driver, reason, api string) error {
	codes := DrainErrors(d)
	if codes == nil {
		return nil
	}
	return &GLError{Reason: reason, API: api, Codes: codes}
}

// failOnZeroName follows FailOnError after a glGen* call: a zero name is
// attributed to api even when GL reported nothing.
func failOnZeroName(name uint32, reason, api string) error {
	if name != 0 {
		return nil
	}
	return fmt.Errorf("%s: %s: %w", reason, api, ErrZeroName)
}

// LogOnError drains pending GL errors like FailOnError but writes them to
// the package logger at Warn level instead of returning them.
//
// It is meant for release and cleanup paths, where returning a second error
// would hide the failure that triggered the cleanup.
func LogOnError(d Driver, reason, api string) {
	codes := DrainErrors(d)
	if codes == nil {
		return
	}
	Logger().Warn(formatErrorMessage(reason, api, codes),
		"reason", reason,
		"api", api,
		"codes", codes,
	)
}
