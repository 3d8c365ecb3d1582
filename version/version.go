package version

// Set at build time with -ldflags "-X github.com/Baptistemontan/bench-find-odd/version.Version=..."
var (
	Version = "dev"
	Date    = ""
)
