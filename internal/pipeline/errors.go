// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/pdiddy/article-engine/internal/providers"
	"github.com/pdiddy/article-engine/pkg/types"
)

// ErrorKind classifies a stage failure.
type ErrorKind string

const (
	// KindTransient covers timeouts, rate limits, and server-side errors.
	// Recoverable: the stage runner substitutes a fallback artifact.
	KindTransient ErrorKind = "transient"

	// KindMalformed covers unparseable provider responses. Recoverable the
	// same way as transient failures.
	KindMalformed ErrorKind = "malformed"

	// KindFatal covers failures the pipeline cannot absorb, such as a
	// missing required prior artifact. Fatal errors abort the subject.
	KindFatal ErrorKind = "fatal"
)

// Recoverable reports whether a fallback substitution is allowed for k.
func (k ErrorKind) Recoverable() bool {
	return k == KindTransient || k == KindMalformed
}

// ErrMissingArtifact marks a required prior artifact that is absent or
// undecodable: the pipeline was invoked out of order or the cache is
// corrupt. Always fatal.
var ErrMissingArtifact = errors.New("missing required prior artifact")

// StageError is a classified failure carrying the originating stage name.
type StageError struct {
	Stage types.Stage
	Kind  ErrorKind
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Classify maps an error onto the stage failure taxonomy. Provider errors
// carry their own markers; a missing prior artifact and caller cancellation
// are fatal. Anything unmarked is treated as transient, the recoverable
// default.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrMissingArtifact), errors.Is(err, context.Canceled):
		return KindFatal
	case errors.Is(err, providers.ErrMalformed):
		return KindMalformed
	case errors.Is(err, providers.ErrTransient), errors.Is(err, context.DeadlineExceeded):
		return KindTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTransient
	}
	return KindTransient
}
