package constant

// runtime.GOOS values with a known URL opener.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
	Android = "android"
)
