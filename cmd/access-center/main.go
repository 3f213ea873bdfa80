// Package main is the entry point for the Access Center Service.
package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/kart-io/access-center/cmd/access-center/app"
)

func main() {
	app.NewApp().Run()
}
