package main

import (
	"flag"

	"gridedit/internal/app"
)

func main() {
	envFile := flag.String("env", "", "path to a .env file (defaults to ./.env when present)")
	flag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	app.ServeMCP(envFiles...)
}
