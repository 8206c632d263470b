package envelope

import (
	"time"

	"github.com/faaskit/fn-observation/tracing"
)

// Platform is the serverless runtime collaborator. The core never computes
// any of these values itself; they come from whatever runtime hosts the
// function. A nil Platform disables invocation-metadata enrichment and the
// budget metrics.
type Platform interface {
	// InvocationID returns the platform's id for the current invocation.
	InvocationID() string
	// FunctionName returns the deployed function name.
	FunctionName() string
	// FunctionVersion returns the deployed function version.
	FunctionVersion() string
	// MemoryLimitMB returns the configured memory limit in megabytes.
	MemoryLimitMB() int
	// RemainingTime returns the wall-clock budget left before the platform
	// kills the invocation.
	RemainingTime() time.Duration
	// ColdStart reports whether this invocation initialized a fresh worker.
	ColdStart() bool
}

func invocationMetadata(p Platform) *tracing.InvocationMetadata {
	if p == nil {
		return nil
	}
	return &tracing.InvocationMetadata{
		InvocationID:    p.InvocationID(),
		FunctionName:    p.FunctionName(),
		FunctionVersion: p.FunctionVersion(),
		MemoryLimitMB:   p.MemoryLimitMB(),
		RemainingTime:   p.RemainingTime(),
		ColdStart:       p.ColdStart(),
	}
}
