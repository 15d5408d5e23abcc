package main

import (
	"github.com/haguru/courier/config"
	"github.com/haguru/courier/internal/app"
)

func main() {
	// create and initialize the app
	app, err := app.NewApp(config.CONFIG_PATH)
	if err != nil {
		panic(err)
	}

	// run the app
	err = app.Run()
	if err != nil {
		panic(err)
	}
}
