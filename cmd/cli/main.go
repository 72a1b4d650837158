package main

import "github.com/mchmarny/planscore/pkg/cli"

func main() {
	cli.Execute()
}
