package main

import (
	"os"

	"github.com/tanpawarit/Chative-Cake-Order-Agent/cmd"
	_ "github.com/tanpawarit/Chative-Cake-Order-Agent/pkg/logger/autoload"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
