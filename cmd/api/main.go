package main

import (
	"go.uber.org/fx"

	"github.com/commerce-ops/opsboard/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
