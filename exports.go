package hdl21

import (
	"github.com/hdl21/hdl21/internal/lower"
	"github.com/hdl21/hdl21/internal/types"
)

// Lowering errors, matchable with errors.Is.
var (
	ErrUndefined        = lower.ErrUndefined
	ErrHierarchyCycle   = lower.ErrHierarchyCycle
	ErrUnknownParamType = lower.ErrUnknownParamType
	ErrUnknownSignal    = lower.ErrUnknownSignal
	ErrModuleParams     = lower.ErrModuleParams
)

// Diagnostic represents a non-fatal issue found while loading.
type Diagnostic = types.Diagnostic

// DiagnosticConfig controls diagnostic filtering and the failure threshold.
type DiagnosticConfig = types.DiagnosticConfig

// Severity ranks diagnostics. Lower values are more severe.
type Severity = types.Severity

// Diagnostic severities.
const (
	SeverityError   = types.SeverityError
	SeverityWarning = types.SeverityWarning
	SeverityInfo    = types.SeverityInfo
)

// Diagnostic codes.
const (
	DiagHCL                 = types.DiagHCL
	DiagPrivateBinding      = types.DiagPrivateBinding
	DiagDuplicateDefinition = types.DiagDuplicateDefinition
	DiagUnknownPort         = types.DiagUnknownPort
	DiagUnconnectedPort     = types.DiagUnconnectedPort
	DiagWidthMismatch       = types.DiagWidthMismatch
	DiagUnknownParamType    = types.DiagUnknownParamType
)

// DefaultDiagnosticConfig fails only on errors.
func DefaultDiagnosticConfig() DiagnosticConfig { return types.DefaultConfig() }

// StrictDiagnosticConfig fails on warnings too.
func StrictDiagnosticConfig() DiagnosticConfig { return types.StrictConfig() }
