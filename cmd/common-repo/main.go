// Package main is the entry point for the common-repo CLI.
package main

import (
	commonrepo "github.com/gizzahub/common-repo"
	"github.com/gizzahub/common-repo/cmd/common-repo/cmd"
)

func main() {
	cmd.Execute(commonrepo.Version)
}
