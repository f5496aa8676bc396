package main

import (
	"go.uber.org/fx"

	"github.com/TongyunK/orderFood-system/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
