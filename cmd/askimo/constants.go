package askimo

const (
	rootCommandUse   = "askimo"
	rootCommandShort = "Template-driven LLM recipe runner"

	runCommandUse    = "run RECIPE"
	runCommandShort  = "Resolve a recipe's variables, query the model, and print the formatted output"
	listCommandUse   = "list"
	listCommandShort = "List available recipes"
	showCommandUse   = "show RECIPE"
	showCommandShort = "Print a recipe's variables, templates, and post-actions"

	configFlagName      = "config"
	configFlagUsage     = "Path to config.yaml (defaults to search order)"
	setFlagName         = "set"
	setFlagUsage        = "Variable override as name=value (repeatable)"
	formatFlagName      = "format"
	formatFlagUsage     = "Output format override (markdown, ansi, plain)"
	attemptsFlagName    = "attempts"
	attemptsFlagUsage   = "Max attempts for retried stages (0 = use defaults)"
	timeoutFlagName     = "timeout"
	timeoutFlagUsage    = "Overall run timeout (e.g., 90s; 0 = use defaults)"
	modelFlagName       = "model"
	modelFlagUsage      = "Override the configured model identifier"
	recipesDirFlagName  = "recipes-dir"
	recipesDirFlagUsage = "Additional recipe directory searched first (repeatable)"
	allFlagName         = "all"
	allFlagUsage        = "Show each recipe's source path alongside its name"
)
