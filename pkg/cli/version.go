package cli

// Version is the release version, set at build time with
// -ldflags "-X github.com/Fepozopo/fusion/pkg/cli.Version=x.y.z".
var Version = "0.1.0"
