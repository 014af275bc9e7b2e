package consts

// Set at link time like devmode
var (
	GitCommit = "unknown"
	GitRepo   = "unknown"
)
