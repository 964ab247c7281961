package main

import "github.com/MrSnakeDoc/linkmemo/internal/cli"

func main() {
	cli.Execute()
}
