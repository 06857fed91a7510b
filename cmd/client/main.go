package main

import (
	"context"
	"log"

	"github.com/lunamood/lunamood/internal/client/cli"
	"github.com/lunamood/lunamood/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
