package main

import (
	"github.com/mj1618/desktop-fences/cmd"

	_ "github.com/mj1618/desktop-fences/internal/platform/windows"
)

func main() {
	cmd.Execute()
}
