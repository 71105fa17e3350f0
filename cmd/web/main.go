package main

import "github.com/RoberSamy04/natours/internal/app"

func main() {
	app.Run()
}
