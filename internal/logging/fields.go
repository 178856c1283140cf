package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldInput  = "input"
	FieldConfig = "config"

	// Terminal fields.
	FieldTerminal = "terminal"
	FieldColumns  = "columns"
	FieldRows     = "rows"
	FieldProfile  = "profile"

	// Rendering fields.
	FieldTheme    = "theme"
	FieldTarget   = "target"
	FieldProtocol = "protocol"
	FieldLanguage = "language"
	FieldEvents   = "events"
	FieldPager    = "pager"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
