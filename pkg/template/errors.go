package template

import "errors"

// Every way a render can fail, as sentinel errors. Callers match with
// errors.Is; the engine wraps these with the offending detail. All are
// terminal for the current render and non-retryable.
var (
	ErrUnclosedTag            = errors.New("unclosed tag: missing '%}'")
	ErrEmptyTag               = errors.New("empty tag")
	ErrInvalidParam           = errors.New("invalid parameter")
	ErrInvalidForLoopSyntax   = errors.New("invalid for loop syntax")
	ErrUnclosedRangeParen     = errors.New("unclosed range parenthesis")
	ErrInvalidRangeBound      = errors.New("invalid range bound")
	ErrUnterminatedForLoop    = errors.New("for loop without matching endfor")
	ErrUnexpectedEndFor       = errors.New("unexpected endfor outside for loop")
	ErrUnknownCollection      = errors.New("unknown collection")
	ErrUnknownTag             = errors.New("unknown tag")
	ErrUnknownLoopVariable    = errors.New("unknown loop variable")
	ErrUnknownLoopField       = errors.New("unknown loop variable field")
	ErrUnknownDictionaryKey   = errors.New("unknown dictionary key")
	ErrUnknownSecret          = errors.New("unknown secret for proxy")
	ErrInvalidDuration        = errors.New("invalid duration")
	ErrInvalidMemoryOffset    = errors.New("invalid memory offset")
	ErrMemoryOffsetOutOfRange = errors.New("no memory at offset")
	ErrUnknownPipe            = errors.New("unknown pipe")
	ErrInterpolationMismatch  = errors.New("loop variable is not an index")
)
