package main

import (
	"exusiai.dev/pocketstats/cmd/app"
)

func main() {
	app.Run()
}
