package main

import (
	"stepfuse/internal/app"
)

func main() {
	app.Execute()
}
