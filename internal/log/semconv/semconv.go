package semconv

// Shell
const (
	// Unique ID for one interactive session. Assigned when the session
	// starts and carried by every log line it emits.
	SessionID = "session_id"
)

// Scripts
const (
	// Number of top level expressions evaluated in a run.
	ExpressionCount = "expression_count"

	// Unique ID for one evaluation of a script or submission.
	RunID = "run_id"

	// Filesystem path of the script being run.
	ScriptPath = "script_path"
)
