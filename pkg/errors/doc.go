// Package errors provides structured error types for programmatic handling of
// registry and image composition failures.
//
// Every fatal condition is reported as a *StructuredError whose Code
// classifies the failure:
//
//   - CONFIGURATION_CONFLICT: two suites registered the same short name with equal priority
//   - INCOMPATIBLE_SOURCE: the base runtime failed a link precondition
//   - UNKNOWN_MODULE_ROOT: an explicit root module is not available
//   - EXTERNAL_TOOL_FAILURE: jlink or the archive dump exited non-zero
//   - PROBE_FAILURE: the runtime flag probe could not run
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeExternalToolFailure,
//	    "jlink exited with status 1",
//	    cause,
//	    map[string]any{
//	        "command": "jlink",
//	        "output":  out,
//	    },
//	)
//
//	if errors.HasCode(err, errors.ErrCodeUnknownModuleRoot) {
//	    // report the offending names
//	}
package errors
