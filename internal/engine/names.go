package engine

// Well-known invocation names. Process-lifetime constants; the dispatcher and
// the built-in command set agree on these.
const (
	// NamespaceSystem tags the engine's own command set.
	NamespaceSystem = "system"

	CommandHelp = "help"
	CommandList = "list"

	// CommandFeedback is the reserved continuation shape
	// feedback(requestId, response); it never dispatches to a registered
	// command.
	CommandFeedback = "feedback"

	ExtensionTryRun = "tryrun"
)
