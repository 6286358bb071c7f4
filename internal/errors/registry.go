package errors

// Template defines a registered diagnostic.
type Template struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

var registry = map[string]Template{
	// Runtime (R001-R019)

	"R001": {
		Category:   CategoryRuntime,
		Message:    "Node created outside a scope",
		Detail:     "Signals, memos and effects are owned by the scope that is current when they are created. None was current.",
		Suggestion: "Create the node inside scope.Run, or pass an explicit scope.",
	},
	"R002": {
		Category:   CategoryRuntime,
		Message:    "Node used after disposal",
		Detail:     "The node's scope was disposed, so the node no longer holds a value and cannot be written.",
		Suggestion: "Keep the owning scope alive for as long as handles to its nodes are in use.",
	},
	"R003": {
		Category:   CategoryRuntime,
		Message:    "Cyclic dependency",
		Detail:     "A computation wrote to a signal it depends on, directly or through a memo. The write was rejected and the previous value kept.",
		Suggestion: "Move the write into an event handler or read the source untracked.",
	},
	"R004": {
		Category:   CategoryRuntime,
		Message:    "Flush budget exceeded",
		Detail:     "A single flush ran more computations than the budget allows. Effects are probably feeding each other through writes.",
		Suggestion: "Break the write loop, or raise runtime.flush_budget if the graph is legitimately large.",
	},
	"R005": {
		Category: CategoryRuntime,
		Message:  "Effect failed",
		Detail:   "A memo or effect returned an error. Other computations in the same flush still ran.",
	},
	"R006": {
		Category: CategoryRuntime,
		Message:  "Effect panicked",
		Detail:   "A memo or effect panicked. The panic was recovered and the rest of the flush continued.",
	},

	// Reconciliation (R020-R029)

	"R020": {
		Category:   CategoryReconcile,
		Message:    "Duplicate key in list",
		Detail:     "Keyed lists need every key to be unique. The list was left as it was.",
		Suggestion: "Derive keys from a stable unique id rather than from display values.",
	},

	// Bindings (R030-R039)

	"R030": {
		Category:   CategoryBinding,
		Message:    "Binding read before mount",
		Detail:     "An uncontrolled field was read while no host element was attached to its ref.",
		Suggestion: "Read the field only while it is mounted.",
	},

	// Demo (R040-R049)

	"R040": {
		Category: CategoryDemo,
		Message:  "Unknown counter",
		Detail:   "The action named a counter that is not in the dynamic list.",
	},
	"R041": {
		Category:   CategoryDemo,
		Message:    "Invalid script",
		Detail:     "The script contains a line that is not a known command.",
		Suggestion: "Run `reactor demo --help` to list the commands.",
	},

	// Configuration and CLI (R050-R059)

	"R050": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"R051": {
		Category: CategoryCLI,
		Message:  "Unexpected error",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns every registered code.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
