// Command api runs the Foodgram HTTP API server.
package main

import (
	"go.uber.org/fx"

	"github.com/foodgram/backend/internal/infrastructure/container"
)

func main() {
	app := fx.New(container.Module)
	app.Run()
}
