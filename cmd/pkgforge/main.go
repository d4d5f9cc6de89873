package main

import (
	pkgforgecmd "github.com/initializ/pkgforge/cmd"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	pkgforgecmd.SetVersionInfo(version, commit)
	pkgforgecmd.Execute()
}
